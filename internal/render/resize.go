// Package render implements the frame compositing pipeline: album art
// resizing, text overlay rasterization and the final display composition.
package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrInvalidGeometry reports non-positive target dimensions, an empty source
// image, or a resize whose truncated aspect ratio collapses the width.
var ErrInvalidGeometry = errors.New("render: invalid geometry")

// ResizeAndCenter scales img to fill targetHeight and center-crops it to at
// most targetWidth.
//
// The scaled width is computed as floor(floor(srcW/srcH) * targetHeight):
// the aspect ratio is truncated to an integer before scaling. This matches
// the output of previously cached frames and is kept for byte compatibility.
// Sources taller than wide truncate to a zero width and are rejected.
//
// The result always has height targetHeight. Its width equals targetWidth
// only when the scaled width exceeds it; narrower results are returned
// unchanged, without padding.
func ResizeAndCenter(img image.Image, targetWidth, targetHeight int) (*image.NRGBA, error) {
	if targetWidth <= 0 || targetHeight <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrInvalidGeometry, targetWidth, targetHeight)
	}
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()
	if srcWidth == 0 || srcHeight == 0 {
		return nil, fmt.Errorf("%w: source %dx%d", ErrInvalidGeometry, srcWidth, srcHeight)
	}

	aspectRatio := float64(srcWidth) / float64(srcHeight)
	newHeight := targetHeight
	newWidth := int(aspectRatio) * newHeight
	if newWidth <= 0 {
		return nil, fmt.Errorf("%w: aspect ratio %.3f truncates to zero width", ErrInvalidGeometry, aspectRatio)
	}

	resized := imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)

	if newWidth > targetWidth {
		xOffset := (newWidth - targetWidth) / 2
		return imaging.Crop(resized, image.Rect(xOffset, 0, xOffset+targetWidth, newHeight)), nil
	}
	return resized, nil
}
