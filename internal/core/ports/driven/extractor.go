package driven

import (
	"context"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

// Extractor turns a payload into plain text.
// Each extractor handles one family of file types (e.g., PDF, images).
type Extractor interface {
	// SupportedTypes returns the file types this extractor handles.
	SupportedTypes() []domain.FileType

	// Extract returns the text of the payload.
	// Returns domain.ErrInvalidInput for a nil payload.
	Extract(ctx context.Context, payload *domain.Payload) (*ExtractResult, error)
}

// ExtractResult contains the output of one extraction strategy.
type ExtractResult struct {
	// Text is the extracted content.
	Text string

	// Method records which strategy produced the text.
	Method domain.ExtractionMethod

	// Pages is the page count for paged formats, zero otherwise.
	Pages int
}

// ExtractorRegistry dispatches payloads to the extractor registered for their type.
type ExtractorRegistry interface {
	// Register adds an extractor for every type it supports.
	// A later registration replaces an earlier one for the same type.
	Register(extractor Extractor)

	// Lookup returns the extractor for a file type.
	Lookup(fileType domain.FileType) (Extractor, bool)

	// SupportedTypes returns all registered file types.
	SupportedTypes() []domain.FileType
}
