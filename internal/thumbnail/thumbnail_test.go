package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestGenerateDownscalesWithinBound(t *testing.T) {
	src := encodePNG(t, 1600, 1200)
	out, err := Generate(bytes.NewReader(src), 800, 800)
	require.NoError(t, err)

	w, h := decodeDims(t, out)
	assert.LessOrEqual(t, w, 800)
	assert.LessOrEqual(t, h, 800)

	// Aspect ratio preserved within a pixel of rounding.
	wantH := float64(h) * (1600.0 / 1200.0)
	assert.InDelta(t, float64(w), wantH, 1.0)
}

func TestGenerateNeverUpscales(t *testing.T) {
	src := encodePNG(t, 120, 90)
	out, err := Generate(bytes.NewReader(src), 800, 800)
	require.NoError(t, err)

	w, h := decodeDims(t, out)
	assert.Equal(t, 120, w)
	assert.Equal(t, 90, h)
}

func TestGenerateTallImage(t *testing.T) {
	src := encodePNG(t, 300, 2400)
	out, err := Generate(bytes.NewReader(src), 800, 800)
	require.NoError(t, err)

	w, h := decodeDims(t, out)
	assert.Equal(t, 800, h)
	assert.Equal(t, 100, w)
}

func TestGenerateCorruptInput(t *testing.T) {
	_, err := Generate(strings.NewReader("definitely not an image"), 800, 800)
	assert.Error(t, err)
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{1600, 1200, 800, 800, 800, 600},
		{1200, 1600, 800, 800, 600, 800},
		{400, 300, 800, 800, 400, 300},
		{800, 800, 800, 800, 800, 800},
		{10000, 10, 800, 800, 800, 1},
		{0, 0, 800, 800, 0, 0},
	}
	for _, tt := range tests {
		w, h := FitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
		assert.Equal(t, tt.wantW, w, "input %dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantH, h, "input %dx%d", tt.w, tt.h)
		assert.LessOrEqual(t, w, int(math.Max(float64(tt.maxW), float64(tt.w))))
	}
}
