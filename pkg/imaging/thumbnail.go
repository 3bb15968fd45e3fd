// Package imaging derives resized copies of uploaded images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels bounds both decoded sources and generated thumbnails.
const DefaultMaxPixels = 40_000_000

var (
	ErrInvalidWidth = errors.New("imaging: width must be positive")
	ErrTooLarge     = errors.New("imaging: image exceeds pixel limit")
)

// Source is a decoded image. It is read-only after Decode and safe to
// resize from several goroutines.
type Source struct {
	img       image.Image
	format    string
	maxPixels int
}

// Decode reads the header first and refuses images larger than maxPixels
// (DefaultMaxPixels when maxPixels <= 0) before any pixel data is allocated.
// The same limit applies to every thumbnail taken from the Source.
func Decode(data []byte, maxPixels int) (*Source, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode config: %w", err)
	}
	if !withinLimit(cfg.Width, cfg.Height, maxPixels) {
		return nil, fmt.Errorf("imaging: source %dx%d: %w", cfg.Width, cfg.Height, ErrTooLarge)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}
	return &Source{img: img, format: format, maxPixels: maxPixels}, nil
}

func withinLimit(w, h, maxPixels int) bool {
	if w <= 0 || h <= 0 {
		return true
	}
	return w <= maxPixels && h <= maxPixels && int64(w)*int64(h) <= int64(maxPixels)
}

func (s *Source) Format() string { return s.format }

func (s *Source) Bounds() image.Rectangle { return s.img.Bounds() }

// Thumbnail scales the image to width pixels, keeping the aspect ratio, and
// encodes it in the source format (png for formats without an encoder).
func (s *Source) Thumbnail(width int) ([]byte, error) {
	if width <= 0 {
		return nil, ErrInvalidWidth
	}
	if h := ScaledHeight(s.img.Bounds(), width); !withinLimit(width, h, s.maxPixels) {
		return nil, fmt.Errorf("imaging: thumbnail %dx%d: %w", width, h, ErrTooLarge)
	}
	dst := Scale(s.img, width)

	var buf bytes.Buffer
	var err error
	switch s.format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("imaging: encode %d: %w", width, err)
	}
	return buf.Bytes(), nil
}

// ScaledHeight is the height b keeps its aspect ratio at when scaled to width.
func ScaledHeight(b image.Rectangle, width int) int {
	height := 1
	if b.Dx() > 0 {
		height = int((int64(b.Dy())*int64(width) + int64(b.Dx()/2)) / int64(b.Dx()))
	}
	if height < 1 {
		height = 1
	}
	return height
}

// Scale resizes src to the given width with Catmull-Rom resampling. Callers
// bound the output size; Thumbnail does so through the Source limit.
func Scale(src image.Image, width int) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, width, ScaledHeight(b, width)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
