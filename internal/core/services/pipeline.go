package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driving"
	"github.com/custodia-labs/docsum/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// PipelineService validates uploads and runs extraction followed by summarisation.
type PipelineService struct {
	extraction driving.ExtractionService
	summary    driving.SummaryService
	maxBytes   int64
}

// NewPipelineService creates a pipeline service.
// A non-positive maxBytes falls back to domain.MaxPayloadBytes.
func NewPipelineService(extraction driving.ExtractionService, summary driving.SummaryService, maxBytes int64) *PipelineService {
	if maxBytes <= 0 {
		maxBytes = domain.MaxPayloadBytes
	}
	return &PipelineService{
		extraction: extraction,
		summary:    summary,
		maxBytes:   maxBytes,
	}
}

// MaxBytes returns the upload limit.
func (s *PipelineService) MaxBytes() int64 {
	return s.maxBytes
}

// Validate checks size and type before any extraction runs.
func (s *PipelineService) Validate(name string, content []byte) (*domain.Payload, error) {
	if int64(len(content)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrPayloadTooLarge, len(content), s.maxBytes)
	}
	return domain.NewPayload(name, content)
}

// Extract validates and extracts an uploaded document.
// Whitespace-only text is rejected with domain.ErrEmptyExtraction.
func (s *PipelineService) Extract(ctx context.Context, name string, content []byte) (*domain.Extraction, error) {
	payload, err := s.Validate(name, content)
	if err != nil {
		return nil, err
	}

	extraction, err := s.extraction.Extract(ctx, payload)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(extraction.Text) == "" {
		return nil, domain.ErrEmptyExtraction
	}
	return extraction, nil
}

// Summarise validates, extracts and summarises an uploaded document.
func (s *PipelineService) Summarise(ctx context.Context, name string, content []byte) (*domain.Result, error) {
	start := time.Now()
	defer logger.Timed("total processing")()

	extraction, err := s.Extract(ctx, name, content)
	if err != nil {
		return nil, err
	}

	summary, err := s.summary.Summarise(ctx, extraction.Text)
	if err != nil {
		return nil, err
	}

	return &domain.Result{
		ID:         uuid.NewString(),
		Name:       name,
		Extraction: extraction,
		Summary:    summary,
		Duration:   time.Since(start),
	}, nil
}
