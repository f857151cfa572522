package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/logger"
)

// Ensure Pdftoppm implements the interface.
var _ driven.Rasteriser = (*Pdftoppm)(nil)

// PdftoppmBinary is the poppler executable that renders PDF pages.
const PdftoppmBinary = "pdftoppm"

// DefaultDPI is used when no resolution is configured.
const DefaultDPI = 150

// Pdftoppm renders PDF pages to PNG with poppler's pdftoppm.
type Pdftoppm struct {
	runner   driven.CommandRunner
	lookPath lookPath
	dpi      int
}

// NewPdftoppm creates a rasteriser rendering at dpi (default: 150).
// A nil runner uses ExecRunner.
func NewPdftoppm(runner driven.CommandRunner, dpi int) *Pdftoppm {
	if runner == nil {
		runner = ExecRunner{}
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Pdftoppm{
		runner:   runner,
		lookPath: exec.LookPath,
		dpi:      dpi,
	}
}

// Rasterise renders pages 1..maxPages and returns them in page order.
func (p *Pdftoppm) Rasterise(ctx context.Context, pdf []byte, maxPages int) ([]image.Image, error) {
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: empty pdf", domain.ErrInvalidInput)
	}
	if maxPages <= 0 || maxPages > domain.MaxOCRPages {
		maxPages = domain.MaxOCRPages
	}
	if _, err := p.lookPath(PdftoppmBinary); err != nil {
		return nil, fmt.Errorf("%w: %s not found on PATH", domain.ErrOCRUnavailable, PdftoppmBinary)
	}

	dir, err := os.MkdirTemp("", "docsum-raster-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}

	prefix := filepath.Join(dir, "page")
	logger.Debug("pdftoppm: rendering up to %d pages at %d dpi", maxPages, p.dpi)
	if _, err := p.runner.Run(ctx, PdftoppmBinary,
		"-r", strconv.Itoa(p.dpi),
		"-f", "1",
		"-l", strconv.Itoa(maxPages),
		"-png",
		input, prefix,
	); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w", err)
	}

	files, err := pageFiles(dir)
	if err != nil {
		return nil, err
	}

	images := make([]image.Image, 0, len(files))
	for _, name := range files {
		img, err := decodePNG(name)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// pageFiles lists page-N.png outputs ordered by N.
// pdftoppm zero-pads N to the width of the page count, so names alone do not sort.
func pageFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, fmt.Errorf("list rendered pages: %w", err)
	}

	type page struct {
		n    int
		path string
	}
	pages := make([]page, 0, len(matches))
	for _, m := range matches {
		base := strings.TrimSuffix(filepath.Base(m), ".png")
		n, err := strconv.Atoi(strings.TrimPrefix(base, "page-"))
		if err != nil {
			continue
		}
		pages = append(pages, page{n: n, path: m})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].n < pages[j].n })

	out := make([]string, len(pages))
	for i, pg := range pages {
		out[i] = pg.path
	}
	return out, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rendered page: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
