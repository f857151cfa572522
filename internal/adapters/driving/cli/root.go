// Package cli provides the docsum command-line interface built on cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsum/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/core/ports/driving"
	"github.com/custodia-labs/docsum/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Options carries the global flags into the bootstrap.
type Options struct {
	// ConfigDir overrides ~/.docsum.
	ConfigDir string

	// Verbose enables debug logging.
	Verbose bool
}

// Services holds everything the commands call.
type Services struct {
	Pipeline driving.PipelineService
	Settings driving.SettingsService
	Cache    driving.CacheService
	Prompts  driven.PromptStore
	Metrics  httpapi.Recorder

	// WatchPrompts reloads prompt templates on change until ctx ends. Optional.
	WatchPrompts func(ctx context.Context) error

	// CheckLLM pings the configured completion service. Optional.
	CheckLLM func(ctx context.Context) error

	// Close releases caches and connections. Optional.
	Close func() error
}

// Bootstrap builds the services once the global flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap Bootstrap
	services  *Services
	opts      Options

	// Package-level service handles used by the commands.
	pipelineService driving.PipelineService
	settingsService driving.SettingsService
	cacheService    driving.CacheService
)

var rootCmd = &cobra.Command{
	Use:   "docsum",
	Short: "Extract and summarise documents",
	Long: `docsum extracts plain text from PDF, DOCX, image, CSV and text files and
summarises it with an LLM using a direct or map-reduce strategy.

Scanned PDFs fall back to OCR through tesseract. Extracted text is cached by
content fingerprint so repeated requests skip extraction.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.docsum)")
}

// Execute runs the root command with the given bootstrap.
func Execute(ctx context.Context, b Bootstrap) error {
	bootstrap = b
	// cmd.Print* writes to stderr unless an output is set.
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)
	// PersistentPostRunE is skipped when a command fails.
	if cerr := teardown(); err == nil {
		err = cerr
	}
	return err
}

// setup applies logging flags and builds the services.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)

	if cmd == versionCmd || bootstrap == nil {
		return nil
	}

	svc, err := bootstrap(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	services = svc
	pipelineService = svc.Pipeline
	settingsService = svc.Settings
	cacheService = svc.Cache
	return nil
}

func teardown() error {
	svc := services
	services = nil
	pipelineService, settingsService, cacheService = nil, nil, nil
	if svc == nil || svc.Close == nil {
		return nil
	}
	return svc.Close()
}

var errNotConfigured = errors.New("service not configured")

func requirePipeline() error {
	if pipelineService == nil {
		return fmt.Errorf("pipeline %w", errNotConfigured)
	}
	return nil
}
