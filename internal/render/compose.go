package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/davoli/trackframe/internal/domain"
)

// Compose flattens one display frame: cover pasted opaquely at the center of
// the background, the result cropped onto an opaque canvas of exactly the
// display dimensions, and the text layer pasted on top through its own alpha
// channel.
//
// A cover larger than the display yields a negative center offset; the
// out-of-bounds pixels are clipped, not wrapped. A background larger than
// the display is truncated at the canvas edge.
func Compose(background, cover image.Image, display domain.DisplaySize, textLayer image.Image) (*image.NRGBA, error) {
	if display.Width <= 0 || display.Height <= 0 {
		return nil, fmt.Errorf("%w: display %dx%d", ErrInvalidGeometry, display.Width, display.Height)
	}

	centerX := display.Width/2 - cover.Bounds().Dx()/2
	centerY := display.Height/2 - cover.Bounds().Dy()/2
	composited := imaging.Paste(background, cover, image.Pt(centerX, centerY))

	canvas := imaging.New(display.Width, display.Height, color.NRGBA{A: 255})
	canvas = imaging.Paste(canvas, composited, image.Pt(0, 0))
	canvas = imaging.Overlay(canvas, textLayer, image.Pt(0, 0), 1.0)

	return canvas, nil
}

// WriteFrame persists a composed frame, overwriting any previous content at
// path. The format follows the file extension. Write errors propagate
// unmodified apart from wrapping; there are no retries here.
func WriteFrame(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create frame directory: %w", err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}
