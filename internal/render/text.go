package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/davoli/trackframe/internal/domain"
	"github.com/davoli/trackframe/internal/palette"
)

// ErrFontUnavailable reports a missing or unparseable typeface. The typeface
// is a startup dependency: it is loaded once at construction, never per call.
var ErrFontUnavailable = errors.New("render: typeface unavailable")

// Text colors above this perceived brightness get black text, below it
// white. Fixed calibration constant, not derived from the contrast ratio.
const brightnessThreshold = 186

const lineSpacing = 1.2

// TextRenderer rasterizes the title/artist overlay onto a transparent layer
// sized to the display.
type TextRenderer struct {
	logger *zap.Logger
	font   *truetype.Font
	size   float64
	x      int
	y      int
}

// NewTextRenderer loads the configured typeface and prepares a renderer.
// With no font path configured the bundled Go Regular face is used.
func NewTextRenderer(logger *zap.Logger, cfg domain.Config) (*TextRenderer, error) {
	data := goregular.TTF
	if path := cfg.GetFontPath(); path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFontUnavailable, path, err)
		}
		logger.Info("Overlay typeface loaded", zap.String("path", path))
	}

	fnt, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}

	x, y := cfg.GetTextPosition()
	return &TextRenderer{
		logger: logger,
		font:   fnt,
		size:   cfg.GetFontSize(),
		x:      x,
		y:      y,
	}, nil
}

// Render draws "title\nartist" at the configured offset onto a fully
// transparent RGBA canvas of exactly the display dimensions. The fill color
// is black when the first palette entry is perceptually bright (above the
// calibration threshold), white otherwise. Pixels outside glyph coverage
// stay transparent.
func (r *TextRenderer) Render(title, artist string, pal palette.Palette, display domain.DisplaySize) (*image.NRGBA, error) {
	if display.Width <= 0 || display.Height <= 0 {
		return nil, fmt.Errorf("%w: display %dx%d", ErrInvalidGeometry, display.Width, display.Height)
	}
	if len(pal) == 0 {
		return nil, fmt.Errorf("render: palette must not be empty")
	}

	textColor := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if palette.PerceivedBrightness(pal[0]) > brightnessThreshold {
		textColor = color.NRGBA{A: 255}
	}

	// Zero-valued NRGBA is fully transparent
	canvas := image.NewNRGBA(image.Rect(0, 0, display.Width, display.Height))

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(r.font)
	c.SetFontSize(r.size)
	c.SetClip(canvas.Bounds())
	c.SetDst(canvas)
	c.SetSrc(image.NewUniform(textColor))
	c.SetHinting(font.HintingFull)

	// DrawString anchors on the baseline, so shift down by one em from the
	// requested top-left position
	pt := freetype.Pt(r.x, r.y+int(c.PointToFixed(r.size)>>6))
	lineHeight := c.PointToFixed(r.size * lineSpacing)

	for _, line := range []string{title, artist} {
		if _, err := c.DrawString(line, pt); err != nil {
			return nil, fmt.Errorf("failed to draw overlay text: %w", err)
		}
		pt.Y += lineHeight
	}

	r.logger.Debug("Text overlay rendered",
		zap.String("title", title),
		zap.String("artist", artist),
		zap.Bool("darkText", textColor.R == 0))

	return canvas, nil
}
