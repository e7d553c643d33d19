package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/davoli/trackframe/internal/domain"
	"github.com/davoli/trackframe/internal/palette"
)

const backgroundBlurRadius = 15.0

// FrameRenderer runs the full pipeline for one frame: decode album art,
// derive a palette, build the blurred background, resize the cover, raster
// the text overlay and compose everything into the frame cache file.
//
// Every call allocates fresh buffers; no state is shared between renders.
type FrameRenderer struct {
	logger     *zap.Logger
	display    domain.DisplaySize
	extractor  *palette.Extractor
	text       *TextRenderer
	coverRatio float64
	outputPath string
}

// NewFrameRenderer creates the pipeline renderer.
func NewFrameRenderer(
	logger *zap.Logger,
	cfg domain.Config,
	display domain.DisplaySize,
	extractor *palette.Extractor,
	text *TextRenderer,
) *FrameRenderer {
	return &FrameRenderer{
		logger:     logger,
		display:    display,
		extractor:  extractor,
		text:       text,
		coverRatio: cfg.GetCoverRatio(),
		outputPath: cfg.GetOutputPath(),
	}
}

// Render satisfies domain.Renderer.
func (r *FrameRenderer) Render(ctx context.Context, track domain.TrackUpdate, art []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(art))
	if err != nil {
		return "", fmt.Errorf("failed to decode album art: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", fmt.Errorf("%w: album art %dx%d", ErrInvalidGeometry, bounds.Dx(), bounds.Dy())
	}
	if r.display.Width <= 0 || r.display.Height <= 0 {
		return "", fmt.Errorf("%w: display %dx%d", ErrInvalidGeometry, r.display.Width, r.display.Height)
	}

	// Full-bleed blurred background from the same art
	r.logger.Debug("Building background",
		zap.Int("w", r.display.Width), zap.Int("h", r.display.Height))
	background := imaging.Fill(img, r.display.Width, r.display.Height, imaging.Center, imaging.Lanczos)
	background = imaging.Blur(background, backgroundBlurRadius)

	coverHeight := int(float64(r.display.Height) * r.coverRatio)
	coverWidth := coverHeight
	cover, err := ResizeAndCenter(img, coverWidth, coverHeight)
	if err != nil {
		return "", fmt.Errorf("failed to resize cover: %w", err)
	}

	pal, err := r.extractor.Extract(img)
	if err != nil {
		return "", fmt.Errorf("failed to extract palette: %w", err)
	}

	textLayer, err := r.text.Render(track.Title, track.Artist, pal, r.display)
	if err != nil {
		return "", fmt.Errorf("failed to render text overlay: %w", err)
	}

	frame, err := Compose(background, cover, r.display, textLayer)
	if err != nil {
		return "", fmt.Errorf("failed to compose frame: %w", err)
	}

	if err := WriteFrame(frame, r.outputPath); err != nil {
		return "", err
	}

	r.logger.Info("Frame rendered",
		zap.String("path", r.outputPath),
		zap.String("title", track.Title),
		zap.String("artist", track.Artist))

	return r.outputPath, nil
}
