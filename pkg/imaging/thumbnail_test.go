package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnailKeepsAspectRatio(t *testing.T) {
	src, err := Decode(pngBytes(t, 200, 100), 0)
	require.NoError(t, err)
	assert.Equal(t, "png", src.Format())

	for _, width := range []int{500, 250, 100} {
		out, err := src.Thumbnail(width)
		require.NoError(t, err)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, width, cfg.Width)
		assert.Equal(t, width/2, cfg.Height)
	}
}

func TestThumbnailJPEGStaysJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 40, 40)), nil))

	src, err := Decode(buf.Bytes(), 0)
	require.NoError(t, err)

	out, err := src.Thumbnail(10)
	require.NoError(t, err)
	_, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestDecodeRejectsNonImage(t *testing.T) {
	_, err := Decode([]byte("Hello Webstack!"), 0)
	assert.Error(t, err)
}

func TestThumbnailInvalidWidth(t *testing.T) {
	src, err := Decode(pngBytes(t, 4, 4), 0)
	require.NoError(t, err)

	_, err = src.Thumbnail(0)
	assert.ErrorIs(t, err, ErrInvalidWidth)
}

func TestScaleTinyHeight(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1000, 1))
	out := Scale(img, 100)
	assert.Equal(t, 1, out.Bounds().Dy())
}

func TestDecodeRejectsOversizedSource(t *testing.T) {
	_, err := Decode(pngBytes(t, 20, 10), 100)
	assert.ErrorIs(t, err, ErrTooLarge)

	src, err := Decode(pngBytes(t, 10, 10), 100)
	require.NoError(t, err)
	assert.Equal(t, 10, src.Bounds().Dx())
}

// A tall sliver decodes cheaply but would scale to a huge canvas.
func TestThumbnailRejectsOversizedOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 20000))))

	src, err := Decode(buf.Bytes(), 0)
	require.NoError(t, err)

	for _, width := range []int{500, 250, 100} {
		_, err := src.Thumbnail(width)
		assert.ErrorIs(t, err, ErrTooLarge, width)
	}
	out, err := src.Thumbnail(1)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestScaledHeight(t *testing.T) {
	assert.Equal(t, 10_000_000, ScaledHeight(image.Rect(0, 0, 1, 20000), 500))
	assert.Equal(t, 50, ScaledHeight(image.Rect(0, 0, 200, 100), 100))
	assert.Equal(t, 1, ScaledHeight(image.Rect(0, 0, 1000, 1), 100))
}
