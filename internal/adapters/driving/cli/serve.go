package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsum/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docsum/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

Endpoints:
  POST /summarize   multipart field "file"; add ?debug=true for the extracted text
  POST /extract     multipart field "file"
  GET  /healthz
  GET  /metrics     Prometheus metrics

Prompt templates in the config directory are reloaded when they change.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}
	logger.EnableInfo()

	cfg := httpapi.Config{
		Pipeline: pipelineService,
		Metrics:  services.Metrics,
	}
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		cfg.Addr = settings.Server.Addr
		cfg.MaxUploadBytes = settings.Server.MaxUploadBytes
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" { //nolint:errcheck // flag registered above
		cfg.Addr = addr
	}

	server, err := httpapi.NewServer(cfg)
	if err != nil {
		return err
	}

	if services.WatchPrompts != nil {
		if err := services.WatchPrompts(cmd.Context()); err != nil {
			logger.Warn("prompt hot reload disabled: %v", err)
		}
	}

	return server.Run(cmd.Context())
}
