package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/core/ports/driving"
	"github.com/custodia-labs/docsum/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// ExtractionService dispatches payloads to extractors and caches the results by fingerprint.
type ExtractionService struct {
	registry driven.ExtractorRegistry
	cache    driven.ExtractionCache
	metrics  driven.Metrics
}

// NewExtractionService creates an extraction service.
// The cache parameter is optional (can be nil).
func NewExtractionService(registry driven.ExtractorRegistry, cache driven.ExtractionCache) *ExtractionService {
	return &ExtractionService{
		registry: registry,
		cache:    cache,
	}
}

// SetMetrics sets the metrics recorder.
func (s *ExtractionService) SetMetrics(m driven.Metrics) {
	s.metrics = m
}

// SupportedTypes returns the file types with a registered strategy.
func (s *ExtractionService) SupportedTypes() []domain.FileType {
	return s.registry.SupportedTypes()
}

// Extract returns the text of the payload.
// A cache hit returns the stored text without running any strategy.
// A fresh result is cached before it is returned.
func (s *ExtractionService) Extract(ctx context.Context, payload *domain.Payload) (*domain.Extraction, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: nil payload", domain.ErrInvalidInput)
	}
	if !payload.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, payload.Type)
	}
	extractor, ok := s.registry.Lookup(payload.Type)
	if !ok {
		return nil, fmt.Errorf("%w: no extractor for %s", domain.ErrUnsupportedFormat, payload.Type)
	}

	logger.Section("Extraction")
	fp := payload.Fingerprint()
	logger.Debug("payload %q type=%s size=%d fingerprint=%s", payload.Name, payload.Type, payload.Size(), fp.Short())

	if text, hit := s.lookup(ctx, fp); hit {
		logger.Info("extraction cache hit for %s", fp.Short())
		return &domain.Extraction{
			Fingerprint: fp,
			Type:        payload.Type,
			Text:        text,
			Method:      domain.MethodCache,
			Cached:      true,
		}, nil
	}

	start := time.Now()
	result, err := extractor.Extract(ctx, payload)
	elapsed := time.Since(start)
	logger.Info("extraction of %s took %s", payload.Type, elapsed.Round(time.Millisecond))
	if err != nil {
		return nil, classifyExtractionError(payload.Type, err)
	}

	if s.metrics != nil {
		s.metrics.ObserveExtraction(string(payload.Type), string(result.Method), elapsed)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, fp, result.Text); err != nil {
			logger.Warn("extraction cache put %s: %v", fp.Short(), err)
		}
	}

	return &domain.Extraction{
		Fingerprint: fp,
		Type:        payload.Type,
		Text:        result.Text,
		Method:      result.Method,
		Pages:       result.Pages,
	}, nil
}

// lookup consults the cache. A failing cache is logged and treated as a miss.
func (s *ExtractionService) lookup(ctx context.Context, fp domain.Fingerprint) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	text, hit, err := s.cache.Get(ctx, fp)
	if err != nil {
		logger.Warn("extraction cache get %s: %v", fp.Short(), err)
		return "", false
	}
	if s.metrics != nil {
		s.metrics.ObserveCache(hit)
	}
	return text, hit
}

// classifyExtractionError makes sure every strategy failure carries a sentinel.
func classifyExtractionError(ft domain.FileType, err error) error {
	switch {
	case errors.Is(err, domain.ErrExtractionFailed),
		errors.Is(err, domain.ErrDecode),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &domain.ExtractionError{Type: ft, Native: err}
	}
}
