package coverart

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// decoders for the formats local art and providers show up with
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

const jpegQuality = 95

// NeedsConvert reports whether data must be re-encoded before it can serve
// as a player-safe cover: anything not already a JPEG inside the box.
func NeedsConvert(data []byte, maxSize int) bool {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return true
	}
	return format != "jpeg" || cfg.Width > maxSize || cfg.Height > maxSize
}

// Convert decodes any supported image and re-encodes it as a baseline JPEG
// scaled down, aspect preserved, to fit maxSize in both dimensions. Images
// already inside the box keep their dimensions.
func Convert(data []byte, maxSize int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxSize || height > maxSize {
		scale := float64(maxSize) / float64(max(width, height))
		width = max(1, int(float64(width)*scale))
		height = max(1, int(float64(height)*scale))
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == bounds.Dx() && height == bounds.Dy() {
		draw.Copy(dst, image.Point{}, src, bounds, draw.Over, nil)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
