package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the extraction cache",
	Long:  `Show or clear the cache of extracted text, keyed by content fingerprint.`,
	RunE:  runCacheStats,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache backend and entry count",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached extraction",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return fmt.Errorf("cache %w", errNotConfigured)
	}
	stats, err := cacheService.Stats(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Backend: %s\n", stats.Backend)
	cmd.Printf("Entries: %d\n", stats.Entries)
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return fmt.Errorf("cache %w", errNotConfigured)
	}
	if err := cacheService.Clear(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Cache cleared.")
	return nil
}
