// Package palette provides the color model used by the rendering pipeline:
// plain RGB values, ordered palettes extracted from album art, and the
// luminance and contrast math used to pick readable text colors.
package palette

import (
	"errors"
	"image/color"
	"math"
)

// ErrTooFewColors is returned when an operation needs more palette entries
// than are available.
var ErrTooFewColors = errors.New("palette: at least two colors required")

// Color is a plain RGB triple with each channel in [0,255].
type Color struct {
	R uint8
	G uint8
	B uint8
}

// FromColor converts any color.Color to a Color, discarding alpha.
func FromColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	// RGBA returns 16-bit channels, scale down to 8-bit
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// NRGBA returns the color as an opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Palette is an ordered sequence of colors. Order is significant: index 0 is
// the primary text-color candidate.
type Palette []Color

// RelativeLuminance computes 0.2126*R + 0.7152*G + 0.0722*B over raw channel
// values. Channels are not gamma corrected.
func RelativeLuminance(c Color) float64 {
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}

// ContrastRatio computes (Lmax + 0.05) / (Lmin + 0.05) for the two colors.
// The result is symmetric in its arguments and always >= 1.
func ContrastRatio(a, b Color) float64 {
	la := RelativeLuminance(a)
	lb := RelativeLuminance(b)
	if lb > la {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// PerceivedBrightness computes the perceptual-weighted brightness
// 0.299*R + 0.587*G + 0.114*B used by the text-color policy.
func PerceivedBrightness(c Color) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// DarkestPair orders two colors by Euclidean distance from black in RGB
// space, closer-to-black first. Distance from black is a proxy for perceived
// lightness, not true luminance. On equal distance the first argument wins,
// so the ordering is stable for identical inputs.
func DarkestPair(a, b Color) (darker, lighter Color) {
	if distanceFromBlack(b) < distanceFromBlack(a) {
		return b, a
	}
	return a, b
}

// DarkestOf returns the two leading palette entries ordered darker-first.
// It fails when the palette holds fewer than two colors.
func (p Palette) DarkestOf() (darker, lighter Color, err error) {
	if len(p) < 2 {
		return Color{}, Color{}, ErrTooFewColors
	}
	darker, lighter = DarkestPair(p[0], p[1])
	return darker, lighter, nil
}

func distanceFromBlack(c Color) float64 {
	r := float64(c.R)
	g := float64(c.G)
	b := float64(c.B)
	return math.Sqrt(r*r + g*g + b*b)
}
