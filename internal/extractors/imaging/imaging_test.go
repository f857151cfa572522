package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	img, err := Decode(encodePNG(t, solid(4, 3, color.White)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("not an image"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// pngHeader returns a PNG signature and IHDR chunk declaring an 8-bit
// grayscale canvas of w x h pixels, with no image data.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	chunk := make([]byte, 0, 17)
	chunk = append(chunk, "IHDR"...)
	chunk = binary.BigEndian.AppendUint32(chunk, w)
	chunk = binary.BigEndian.AppendUint32(chunk, h)
	chunk = append(chunk, 8, 0, 0, 0, 0)

	_ = binary.Write(&buf, binary.BigEndian, uint32(len(chunk)-4))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestDecode_RejectsOversizedCanvas(t *testing.T) {
	_, err := Decode(pngHeader(20000, 20000))

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "20000x20000")
}

func TestDecodeLimit(t *testing.T) {
	content := encodePNG(t, solid(10, 10, color.White))

	_, err := DecodeLimit(content, 99)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	img, err := DecodeLimit(content, 100)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 10), img.Bounds())
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int
	}{
		{"default", 0, DefaultSize},
		{"negative", -5, DefaultSize},
		{"custom", 64, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalise(solid(40, 20, color.RGBA{R: 255, A: 255}), tt.size)
			assert.Equal(t, image.Rect(0, 0, tt.want, tt.want), out.Bounds())
		})
	}
}

func TestNormalise_WhiteStaysWhite(t *testing.T) {
	out := Normalise(solid(10, 10, color.White), 8)
	assert.Equal(t, uint8(255), out.GrayAt(4, 4).Y)
}
