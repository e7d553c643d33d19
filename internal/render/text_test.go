package render

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/davoli/trackframe/internal/domain"
	"github.com/davoli/trackframe/internal/palette"
)

// stubConfig is a minimal domain.Config for render tests.
type stubConfig struct {
	fontPath   string
	fontSize   float64
	textX      int
	textY      int
	coverRatio float64
	outputPath string
}

func (c *stubConfig) GetSource() string         { return "spotify" }
func (c *stubConfig) GetOutputPath() string     { return c.outputPath }
func (c *stubConfig) GetRefreshCommand() string { return "" }
func (c *stubConfig) GetDisplaySpec() string    { return "" }
func (c *stubConfig) GetTextPosition() (int, int) {
	return c.textX, c.textY
}
func (c *stubConfig) GetFontPath() string { return c.fontPath }
func (c *stubConfig) GetFontSize() float64 {
	if c.fontSize == 0 {
		return 40
	}
	return c.fontSize
}
func (c *stubConfig) GetCoverRatio() float64 {
	if c.coverRatio == 0 {
		return 0.5
	}
	return c.coverRatio
}
func (c *stubConfig) GetPaletteSize() int              { return 4 }
func (c *stubConfig) GetPollInterval() time.Duration   { return time.Second }
func (c *stubConfig) SpotifyCredentials() (string, string, string) {
	return "id", "secret", "refresh"
}

func newTestTextRenderer(t *testing.T, cfg *stubConfig) *TextRenderer {
	t.Helper()
	if cfg.textX == 0 && cfg.textY == 0 {
		cfg.textX, cfg.textY = 50, 50
	}
	tr, err := NewTextRenderer(zap.NewNop(), cfg)
	if err != nil {
		t.Fatalf("failed to create text renderer: %v", err)
	}
	return tr
}

func TestNewTextRenderer_MissingFont(t *testing.T) {
	_, err := NewTextRenderer(zap.NewNop(), &stubConfig{fontPath: "/nonexistent/font.ttf"})
	if !errors.Is(err, ErrFontUnavailable) {
		t.Fatalf("expected ErrFontUnavailable, got %v", err)
	}
}

func TestTextRenderer_Render(t *testing.T) {
	display := domain.DisplaySize{Width: 500, Height: 300}

	tests := []struct {
		name     string
		pal      palette.Palette
		wantDark bool
	}{
		{
			name:     "Bright candidate selects black text",
			pal:      palette.Palette{{R: 255, G: 255, B: 255}, {R: 0, G: 0, B: 0}},
			wantDark: true,
		},
		{
			name:     "Dark candidate selects white text",
			pal:      palette.Palette{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}},
			wantDark: false,
		},
		{
			name: "Threshold is exclusive",
			// brightness exactly 186 stays white
			pal:      palette.Palette{{R: 186, G: 186, B: 186}, {R: 0, G: 0, B: 0}},
			wantDark: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTextRenderer(t, &stubConfig{})
			layer, err := tr.Render("Paranoid Android", "Radiohead", tt.pal, display)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if layer.Bounds().Dx() != display.Width || layer.Bounds().Dy() != display.Height {
				t.Fatalf("layer is %dx%d, want %dx%d",
					layer.Bounds().Dx(), layer.Bounds().Dy(), display.Width, display.Height)
			}

			// Find a fully opaque glyph pixel and check the fill color
			found := false
			for y := 0; y < display.Height && !found; y++ {
				for x := 0; x < display.Width; x++ {
					px := layer.NRGBAAt(x, y)
					if px.A == 255 {
						found = true
						isDark := px.R == 0 && px.G == 0 && px.B == 0
						isLight := px.R == 255 && px.G == 255 && px.B == 255
						if tt.wantDark && !isDark {
							t.Errorf("glyph pixel %v, want black", px)
						}
						if !tt.wantDark && !isLight {
							t.Errorf("glyph pixel %v, want white", px)
						}
						break
					}
				}
			}
			if !found {
				t.Fatal("no opaque glyph pixels rendered")
			}

			// Corners are outside the glyph area and must stay transparent
			for _, pt := range [][2]int{{0, 0}, {display.Width - 1, 0}, {0, display.Height - 1}, {display.Width - 1, display.Height - 1}} {
				if a := layer.NRGBAAt(pt[0], pt[1]).A; a != 0 {
					t.Errorf("corner (%d,%d) alpha = %d, want 0", pt[0], pt[1], a)
				}
			}
		})
	}
}

func TestTextRenderer_Render_Validation(t *testing.T) {
	tr := newTestTextRenderer(t, &stubConfig{})
	pal := palette.Palette{{R: 10, G: 10, B: 10}, {R: 200, G: 200, B: 200}}

	if _, err := tr.Render("a", "b", pal, domain.DisplaySize{Width: 0, Height: 100}); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("zero width: expected ErrInvalidGeometry, got %v", err)
	}
	if _, err := tr.Render("a", "b", pal, domain.DisplaySize{Width: 100, Height: -5}); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("negative height: expected ErrInvalidGeometry, got %v", err)
	}
	if _, err := tr.Render("a", "b", nil, domain.DisplaySize{Width: 100, Height: 100}); err == nil {
		t.Error("empty palette: expected error")
	}
}
