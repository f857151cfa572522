package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/core/ports/driving"
)

// Ensure CacheService implements the interface.
var _ driving.CacheService = (*CacheService)(nil)

// CacheService reports on and clears the extraction cache.
type CacheService struct {
	backend string
	cache   driven.ExtractionCache
}

// NewCacheService creates a cache service. A nil cache reports zero entries.
func NewCacheService(backend string, cache driven.ExtractionCache) *CacheService {
	return &CacheService{backend: backend, cache: cache}
}

// Stats returns the backend name and entry count.
func (s *CacheService) Stats(ctx context.Context) (*driving.CacheStats, error) {
	stats := &driving.CacheStats{Backend: s.backend}
	if s.cache == nil {
		return stats, nil
	}
	n, err := s.cache.Len(ctx)
	if err != nil {
		return nil, fmt.Errorf("count %s cache: %w", s.backend, err)
	}
	stats.Entries = n
	return stats, nil
}

// Clear removes every cached extraction.
func (s *CacheService) Clear(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear %s cache: %w", s.backend, err)
	}
	return nil
}
