package driven

import (
	"context"
	"image"
)

// OCREngine recognises text in a raster image.
// Implementations may serialise calls internally; callers must not assume parallelism.
type OCREngine interface {
	// Recognise returns the text found in the image.
	Recognise(ctx context.Context, img image.Image) (string, error)

	// Available reports whether the engine can run on this machine.
	Available() bool
}

// Rasteriser renders PDF pages to images.
type Rasteriser interface {
	// Rasterise renders up to maxPages leading pages in page order.
	Rasterise(ctx context.Context, pdf []byte, maxPages int) ([]image.Image, error)
}

// CommandRunner executes external commands.
// It exists so adapters wrapping CLI tools can be tested without the tools installed.
type CommandRunner interface {
	// Run executes name with args and returns its standard output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
