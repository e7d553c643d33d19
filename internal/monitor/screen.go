package monitor

import (
	"fmt"

	"github.com/kbinani/screenshot"
	"go.uber.org/zap"

	"github.com/davoli/trackframe/internal/domain"
)

const (
	fallbackWidth  = 800
	fallbackHeight = 480
)

// NewDisplaySize resolves the target display size. A configured
// "WIDTHxHEIGHT" spec wins; otherwise the primary display is detected, with
// a small-panel fallback when no display is attached (headless render hosts).
func NewDisplaySize(logger *zap.Logger, cfg domain.Config) (domain.DisplaySize, error) {
	if spec := cfg.GetDisplaySpec(); spec != "" {
		size, err := parseDisplaySpec(spec)
		if err != nil {
			return domain.DisplaySize{}, err
		}
		logger.Info("Display size configured",
			zap.Int("width", size.Width), zap.Int("height", size.Height))
		return size, nil
	}

	if screenshot.NumActiveDisplays() <= 0 {
		logger.Warn("No active displays detected, using fallback size",
			zap.Int("width", fallbackWidth), zap.Int("height", fallbackHeight))
		return domain.DisplaySize{Width: fallbackWidth, Height: fallbackHeight}, nil
	}

	bounds := screenshot.GetDisplayBounds(0)
	size := domain.DisplaySize{Width: bounds.Dx(), Height: bounds.Dy()}
	logger.Info("Display size detected",
		zap.Int("width", size.Width), zap.Int("height", size.Height))
	return size, nil
}

func parseDisplaySpec(spec string) (domain.DisplaySize, error) {
	var w, h int
	if _, err := fmt.Sscanf(spec, "%dx%d", &w, &h); err != nil {
		return domain.DisplaySize{}, fmt.Errorf("invalid display spec %q: %w", spec, err)
	}
	if w <= 0 || h <= 0 {
		return domain.DisplaySize{}, fmt.Errorf("invalid display spec %q: dimensions must be positive", spec)
	}
	return domain.DisplaySize{Width: w, Height: h}, nil
}
