// Package imaging prepares raster images for OCR.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	"golang.org/x/image/draw"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

// DefaultSize is the square edge images are resized to.
const DefaultSize = 300

// MaxPixels bounds the decoded size of an image. A few hundred kilobytes of
// PNG can describe a canvas that needs gigabytes once decoded.
const MaxPixels = 50_000_000

// Decode decodes PNG or JPEG bytes of at most MaxPixels pixels.
func Decode(content []byte) (image.Image, error) {
	return DecodeLimit(content, MaxPixels)
}

// DecodeLimit decodes PNG or JPEG bytes, rejecting images larger than maxPixels
// from their header before any pixel buffer is allocated.
func DecodeLimit(content []byte, maxPixels int64) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", domain.ErrInvalidInput, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
		return nil, fmt.Errorf("%w: image is %dx%d, over the %d pixel limit",
			domain.ErrInvalidInput, cfg.Width, cfg.Height, maxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", domain.ErrInvalidInput, err)
	}
	return img, nil
}

// Normalise converts img to grayscale and resizes it to a size x size square.
// A non-positive size falls back to DefaultSize.
func Normalise(img image.Image, size int) *image.Gray {
	if size <= 0 {
		size = DefaultSize
	}
	dst := image.NewGray(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
