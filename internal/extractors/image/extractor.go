// Package image extracts text from raster images with OCR.
package image

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/extractors/imaging"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PNG and JPEG images.
type Extractor struct {
	ocr  driven.OCREngine
	size int
}

// New creates an image extractor. size is the square edge images are resized to
// before recognition; zero uses imaging.DefaultSize.
func New(ocr driven.OCREngine, size int) *Extractor {
	return &Extractor{ocr: ocr, size: size}
}

// SupportedTypes returns the file types this extractor handles.
func (e *Extractor) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypePNG, domain.FileTypeJPG, domain.FileTypeJPEG}
}

// Extract decodes, normalises and recognises the image.
// Recognised words are joined with single spaces.
func (e *Extractor) Extract(ctx context.Context, payload *domain.Payload) (*driven.ExtractResult, error) {
	if payload == nil {
		return nil, domain.ErrInvalidInput
	}
	if e.ocr == nil || !e.ocr.Available() {
		return nil, &domain.ExtractionError{Type: payload.Type, OCR: domain.ErrOCRUnavailable}
	}

	img, err := imaging.Decode(payload.Content)
	if err != nil {
		return nil, &domain.ExtractionError{Type: payload.Type, OCR: err}
	}

	text, err := e.ocr.Recognise(ctx, imaging.Normalise(img, e.size))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.ExtractionError{Type: payload.Type, OCR: fmt.Errorf("recognise: %w", err)}
	}

	return &driven.ExtractResult{
		Text:   strings.Join(strings.Fields(text), " "),
		Method: domain.MethodImageOCR,
		Pages:  1,
	}, nil
}
