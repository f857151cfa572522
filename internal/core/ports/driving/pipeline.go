package driving

import (
	"context"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

// PipelineService is the inbound operation: upload in, summary out.
type PipelineService interface {
	// Summarise validates, extracts and summarises an uploaded document.
	// Size and type are checked before any extraction runs.
	Summarise(ctx context.Context, name string, content []byte) (*domain.Result, error)

	// Extract validates and extracts an uploaded document without summarising it.
	Extract(ctx context.Context, name string, content []byte) (*domain.Extraction, error)

	// MaxBytes returns the upload limit, so callers can refuse oversized input before reading it.
	MaxBytes() int64
}

// ExtractionService turns payloads into text, consulting the extraction cache first.
type ExtractionService interface {
	// Extract returns the text of the payload.
	Extract(ctx context.Context, payload *domain.Payload) (*domain.Extraction, error)

	// SupportedTypes returns the file types with a registered strategy.
	SupportedTypes() []domain.FileType
}

// SummaryService produces a structured summary of extracted text.
type SummaryService interface {
	// Summarise picks the direct or map-reduce strategy by token count.
	Summarise(ctx context.Context, text string) (*domain.Summary, error)
}

// CacheService exposes the extraction cache to operators.
type CacheService interface {
	// Stats returns the cache backend and its entry count.
	Stats(ctx context.Context) (*CacheStats, error)

	// Clear removes every cached extraction.
	Clear(ctx context.Context) error
}

// CacheStats describes the extraction cache.
type CacheStats struct {
	// Backend is the configured backend name.
	Backend string

	// Entries is the number of cached extractions.
	Entries int
}
