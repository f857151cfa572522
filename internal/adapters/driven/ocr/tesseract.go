package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"sync"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/logger"
)

// Ensure Tesseract implements the interface.
var _ driven.OCREngine = (*Tesseract)(nil)

// TesseractBinary is the executable name looked up on PATH.
const TesseractBinary = "tesseract"

// Tesseract recognises text by shelling out to the tesseract CLI.
// Calls are serialised; tesseract already uses every core per image.
type Tesseract struct {
	mu       sync.Mutex
	runner   driven.CommandRunner
	lookPath lookPath
	language string
}

// NewTesseract creates an engine for language (default: eng).
// A nil runner uses ExecRunner.
func NewTesseract(runner driven.CommandRunner, language string) *Tesseract {
	if runner == nil {
		runner = ExecRunner{}
	}
	if language == "" {
		language = "eng"
	}
	return &Tesseract{
		runner:   runner,
		lookPath: exec.LookPath,
		language: language,
	}
}

// Available reports whether the tesseract binary is on PATH.
func (t *Tesseract) Available() bool {
	_, err := t.lookPath(TesseractBinary)
	return err == nil
}

// Recognise writes img to a temporary PNG and reads tesseract's stdout.
func (t *Tesseract) Recognise(ctx context.Context, img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("%w: nil image", domain.ErrInvalidInput)
	}
	if !t.Available() {
		return "", fmt.Errorf("%w: %s not found on PATH", domain.ErrOCRUnavailable, TesseractBinary)
	}

	f, err := os.CreateTemp("", "docsum-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(f.Name())

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write temp image: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	logger.Debug("tesseract: recognising %s (lang=%s)", f.Name(), t.language)
	out, err := t.runner.Run(ctx, TesseractBinary, f.Name(), "stdout", "-l", t.language)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil
}
