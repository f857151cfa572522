package extractors

import (
	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/extractors/csv"
	"github.com/custodia-labs/docsum/internal/extractors/docx"
	"github.com/custodia-labs/docsum/internal/extractors/image"
	"github.com/custodia-labs/docsum/internal/extractors/pdf"
	"github.com/custodia-labs/docsum/internal/extractors/plaintext"
)

// RegisterDefaults registers all built-in extractors with the registry.
// rasteriser and ocr may be nil; scanned PDFs and images then fail with
// domain.ErrOCRUnavailable while every other type keeps working.
func RegisterDefaults(r *Registry, settings domain.ExtractionSettings, rasteriser driven.Rasteriser, ocr driven.OCREngine) {
	r.Register(pdf.New(pdf.ConfigFromSettings(settings), rasteriser, ocr))
	r.Register(docx.New())
	r.Register(image.New(ocr, settings.ImageSize))
	r.Register(csv.New())
	r.Register(plaintext.New())
}

// NewDefaultRegistry returns a registry covering every supported file type.
func NewDefaultRegistry(settings domain.ExtractionSettings, rasteriser driven.Rasteriser, ocr driven.OCREngine) *Registry {
	r := NewRegistry()
	RegisterDefaults(r, settings, rasteriser, ocr)
	return r
}
