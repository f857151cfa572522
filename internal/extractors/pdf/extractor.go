// Package pdf extracts text from PDF documents.
//
// The text layer is read page by page over a bounded worker pool. When it is
// missing or unreadable the first pages are rasterised and recognised with OCR.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/extractors/imaging"
	"github.com/custodia-labs/docsum/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// errNoTextLayer is the native cause recorded when every page came back blank.
var errNoTextLayer = errors.New("no text layer")

// outcome classifies one extraction attempt.
type outcome int

const (
	outcomeText outcome = iota
	outcomeEmpty
	outcomeFailed
)

func (o outcome) String() string {
	switch o {
	case outcomeText:
		return "text"
	case outcomeEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// Config holds PDF extractor configuration.
type Config struct {
	// Reader selects the native text backend.
	Reader domain.PDFReader

	// Workers bounds concurrent page extraction. Zero uses runtime.NumCPU.
	Workers int

	// OCRMaxPages is how many pages are rasterised for OCR, capped at domain.MaxOCRPages.
	OCRMaxPages int

	// ImageSize is the square edge rendered pages are resized to before OCR.
	ImageSize int
}

// ConfigFromSettings builds a Config from extraction settings.
func ConfigFromSettings(s domain.ExtractionSettings) Config {
	return Config{
		Reader:      s.PDFReader,
		Workers:     s.PDFWorkers,
		OCRMaxPages: s.OCRMaxPages,
		ImageSize:   s.ImageSize,
	}
}

// Extractor handles PDF documents.
type Extractor struct {
	open       Opener
	workers    int
	maxPages   int
	imageSize  int
	rasteriser driven.Rasteriser
	ocr        driven.OCREngine
}

// New creates a PDF extractor. rasteriser and ocr may be nil, in which case
// documents without a text layer fail with domain.ErrOCRUnavailable.
func New(cfg Config, rasteriser driven.Rasteriser, ocr driven.OCREngine) *Extractor {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	maxPages := cfg.OCRMaxPages
	if maxPages <= 0 || maxPages > domain.MaxOCRPages {
		maxPages = domain.MaxOCRPages
	}
	return &Extractor{
		open:       OpenerFor(cfg.Reader),
		workers:    workers,
		maxPages:   maxPages,
		imageSize:  cfg.ImageSize,
		rasteriser: rasteriser,
		ocr:        ocr,
	}
}

// SupportedTypes returns the file types this extractor handles.
func (e *Extractor) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypePDF}
}

// Extract tries the text layer first and falls back to OCR.
func (e *Extractor) Extract(ctx context.Context, payload *domain.Payload) (*driven.ExtractResult, error) {
	if payload == nil {
		return nil, domain.ErrInvalidInput
	}

	text, pages, kind, nativeErr := e.native(ctx, payload.Content)
	logger.Debug("pdf %s: native extraction %s (%d pages)", payload.Name, kind, pages)
	if kind == outcomeText {
		return &driven.ExtractResult{Text: text, Method: domain.MethodNative, Pages: pages}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	text, ocrPages, ocrErr := e.recognise(ctx, payload.Content)
	if ocrErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &domain.ExtractionError{Type: domain.FileTypePDF, Native: nativeErr, OCR: ocrErr}
	}

	logger.Debug("pdf %s: OCR recognised %d pages", payload.Name, ocrPages)
	return &driven.ExtractResult{Text: text, Method: domain.MethodOCR, Pages: ocrPages}, nil
}

// native reads every page concurrently. Each worker owns one slot, so the
// joined text follows page order whatever order the workers finish in.
func (e *Extractor) native(ctx context.Context, content []byte) (text string, count int, kind outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, kind, err = "", outcomeFailed, fmt.Errorf("pdf reader: %v", r)
		}
	}()

	src, err := e.open(content)
	if err != nil {
		return "", 0, outcomeFailed, err
	}

	count = src.PageCount()
	if count == 0 {
		return "", 0, outcomeEmpty, errNoTextLayer
	}

	slots := make([]string, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range slots {
		g.Go(func() (err error) {
			defer recoverInto(&err, "page %d", i+1)
			text, err := src.PageText(gctx, i+1)
			if err != nil {
				return err
			}
			slots[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", count, outcomeFailed, err
	}

	text = strings.Join(slots, "\n")
	if strings.TrimSpace(text) == "" {
		return "", count, outcomeEmpty, errNoTextLayer
	}
	return text, count, outcomeText, nil
}

// recognise rasterises the first pages and runs OCR on each in turn.
func (e *Extractor) recognise(ctx context.Context, content []byte) (string, int, error) {
	if e.rasteriser == nil || e.ocr == nil || !e.ocr.Available() {
		return "", 0, domain.ErrOCRUnavailable
	}

	images, err := e.rasteriser.Rasterise(ctx, content, e.maxPages)
	if err != nil {
		return "", 0, fmt.Errorf("rasterise: %w", err)
	}
	if len(images) > e.maxPages {
		images = images[:e.maxPages]
	}

	var b strings.Builder
	for i, img := range images {
		text, err := e.ocr.Recognise(ctx, imaging.Normalise(img, e.imageSize))
		if err != nil {
			return "", i, fmt.Errorf("page %d: %w", i+1, err)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String(), len(images), nil
}
