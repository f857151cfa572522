package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

// PageSource reads the text layer of an opened PDF one page at a time.
// PageText is called concurrently from the page workers.
type PageSource interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageText returns the text of the 1-based page number.
	PageText(ctx context.Context, page int) (string, error)
}

// Opener parses PDF bytes into a PageSource.
type Opener func(content []byte) (PageSource, error)

// OpenerFor returns the opener for the configured reader backend.
func OpenerFor(reader domain.PDFReader) Opener {
	if reader == domain.PDFReaderLedongthuc {
		return OpenLedongthuc
	}
	return OpenPDFCPU
}

var disableConfigDir sync.Once

// recoverInto turns a reader panic into an error so malformed documents
// fall through to OCR instead of taking the process down.
func recoverInto(err *error, format string, args ...any) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: %v", fmt.Sprintf(format, args...), r)
	}
}

// pdfcpuSource extracts text from decoded page content streams.
type pdfcpuSource struct {
	mu  sync.Mutex
	ctx *model.Context
}

// OpenPDFCPU validates the document with pdfcpu.
func OpenPDFCPU(content []byte) (src PageSource, err error) {
	disableConfigDir.Do(api.DisableConfigDir)
	defer recoverInto(&err, "pdfcpu read")

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(content), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return &pdfcpuSource{ctx: ctx}, nil
}

func (s *pdfcpuSource) PageCount() int {
	return s.ctx.PageCount
}

// PageText holds the lock only while the content stream is decoded;
// operator parsing runs in parallel.
func (s *pdfcpuSource) PageText(ctx context.Context, page int) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	defer recoverInto(&err, "page %d content", page)

	data, err := s.pageContent(page)
	if err != nil {
		return "", fmt.Errorf("page %d content: %w", page, err)
	}
	return ContentText(data), nil
}

func (s *pdfcpuSource) pageContent(page int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := pdfcpu.ExtractPageContent(s.ctx, page)
	if err != nil || r == nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// ledongthucSource uses ledongthuc/pdf's font-aware plain text extraction.
type ledongthucSource struct {
	mu     sync.Mutex
	reader *ledongthuc.Reader
	pages  int
}

// OpenLedongthuc parses the document with ledongthuc/pdf.
// The page tree is walked here so a broken trailer fails the open.
func OpenLedongthuc(content []byte) (src PageSource, err error) {
	defer recoverInto(&err, "ledongthuc read")

	reader, err := ledongthuc.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("ledongthuc read: %w", err)
	}
	return &ledongthucSource{reader: reader, pages: reader.NumPage()}, nil
}

func (s *ledongthucSource) PageCount() int {
	return s.pages
}

// PageText is serialised: the reader resolves objects lazily and is not safe for concurrent use.
// The reader panics on some malformed streams; that is reported as a page error.
func (s *ledongthucSource) PageText(ctx context.Context, page int) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer recoverInto(&err, "page %d text", page)

	p := s.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d text: %w", page, err)
	}
	return text, nil
}
