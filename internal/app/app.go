// Package app wires adapters, extractors and services into the CLI's services.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/docsum/internal/adapters/driven/ai"
	"github.com/custodia-labs/docsum/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docsum/internal/adapters/driven/metrics"
	"github.com/custodia-labs/docsum/internal/adapters/driven/ocr"
	"github.com/custodia-labs/docsum/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docsum/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/docsum/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docsum/internal/adapters/driving/cli"
	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/core/services"
	"github.com/custodia-labs/docsum/internal/extractors"
	"github.com/custodia-labs/docsum/internal/logger"
	"github.com/custodia-labs/docsum/internal/postprocessors/chunker"
	"github.com/custodia-labs/docsum/internal/tokeniser"
)

// Bootstrap builds every service from the settings found in opts.ConfigDir.
// A missing LLM credential is not an error here; summarising then fails with
// domain.ErrLLMUnavailable while extraction keeps working.
func Bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore := openConfigStore(opts.ConfigDir)
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	prompts, err := file.NewPromptStore(subdir(opts.ConfigDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	backend := settings.Cache.Backend
	cache, closeCache, err := OpenCache(ctx, settings.Cache, subdir(opts.ConfigDir, "data"))
	if err != nil {
		logger.Warn("%v, falling back to the memory cache", err)
		backend = domain.CacheBackendMemory
		fallback := settings.Cache
		fallback.Backend = backend
		cache, closeCache, _ = OpenCache(ctx, fallback, "")
	}

	recorder := metrics.New()

	registry := extractors.NewDefaultRegistry(
		settings.Extraction,
		ocr.NewPdftoppm(nil, settings.Extraction.RasterDPI),
		ocr.NewTesseract(nil, settings.Extraction.OCRLanguage),
	)
	extraction := services.NewExtractionService(registry, cache)
	extraction.SetMetrics(recorder)

	completion, err := ai.CreateCompletionService(&settings.LLM)
	if err != nil {
		logger.Debug("completion service unavailable: %v", err)
		completion = nil
	}

	summariser := services.NewSummariser(
		completion,
		prompts,
		chunker.New(
			chunker.WithChunkSize(settings.Summary.ChunkSize),
			chunker.WithOverlap(settings.Summary.ChunkOverlap),
		),
		tokeniser.Default(),
		services.SummariserConfigFromSettings(settings),
	)
	summariser.SetMetrics(recorder)

	pipeline := services.NewPipelineService(extraction, summariser, settings.Server.MaxUploadBytes)

	return &cli.Services{
		Pipeline:     pipeline,
		Settings:     settingsService,
		Cache:        services.NewCacheService(string(backend), cache),
		Prompts:      prompts,
		Metrics:      recorder,
		WatchPrompts: prompts.Watch,
		CheckLLM: func(ctx context.Context) error {
			current, err := settingsService.Get()
			if err != nil {
				return err
			}
			return ai.ValidateLLMConfig(ctx, &current.LLM)
		},
		Close: func() error {
			var errs []error
			if completion != nil {
				errs = append(errs, completion.Close())
			}
			errs = append(errs, closeCache())
			return errors.Join(errs...)
		},
	}, nil
}

// openConfigStore falls back to an in-memory store when the config directory is unusable.
func openConfigStore(dir string) driven.ConfigStore {
	store, err := file.NewConfigStore(dir)
	if err != nil {
		logger.Warn("config directory unavailable, settings will not persist: %v", err)
		return memory.NewConfigStore()
	}
	return store
}

// OpenCache opens the configured extraction cache backend.
// The none backend returns a nil cache.
func OpenCache(ctx context.Context, cfg domain.CacheSettings, dataDir string) (driven.ExtractionCache, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case domain.CacheBackendNone:
		return nil, noop, nil

	case domain.CacheBackendSQLite:
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite cache: %w", err)
		}
		cache := store.ExtractionCache(sqlite.CacheOptions{MaxEntries: cfg.MaxEntries, TTL: cfg.TTL})
		return cache, store.Close, nil

	case domain.CacheBackendRedis:
		cache, err := redis.NewExtractionCache(ctx, redis.Config{Addr: cfg.RedisAddr, TTL: cfg.TTL})
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis cache: %w", err)
		}
		return cache, cache.Close, nil

	default:
		policy := memory.NeverEvict()
		if cfg.MaxEntries > 0 {
			policy = memory.LRU(cfg.MaxEntries)
		}
		return memory.NewExtractionCache(policy), noop, nil
	}
}

func subdir(base, name string) string {
	if base == "" {
		return ""
	}
	return filepath.Join(base, name)
}
