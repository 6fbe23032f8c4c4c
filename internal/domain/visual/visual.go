// Package visual maps per-game momentum states to plot geometry and colors.
// It knows nothing about how the states were derived.
package visual

import (
	"math"

	"github.com/okian/momentum/internal/domain/model"
)

// Plot space dimensions.
const (
	Width    = 1000.0 // x extent across the whole match
	Height   = 280.0  // y extent
	Baseline = 140.0  // y of a neutral state
	Unit     = 70.0   // y distance per state unit
)

// Palette colors, one per rounded state bucket.
const (
	ColorStrongNegative = "#C0152F"
	ColorSoftNegative   = "#E68161"
	ColorNeutral        = "#F5F5F5"
	ColorSoftPositive   = "#32808D"
	ColorStrongPositive = "#1A6873"
)

var palette = map[int]string{
	-2: ColorStrongNegative,
	-1: ColorSoftNegative,
	0:  ColorNeutral,
	1:  ColorSoftPositive,
	2:  ColorStrongPositive,
}

// Visual holds the parallel color and position arrays of a match.
type Visual struct {
	Colors    []string
	Positions []model.Position
}

// Map converts states into colors (one per game) and positions (one per game
// plus a leading neutral anchor at x=0). Events are accepted for API symmetry
// and do not affect the result.
func Map(states []float64, _ []model.MomentumEvent) Visual {
	total := len(states)
	positions := make([]model.Position, 0, total+1)
	positions = append(positions, model.Position{X: 0, Y: Baseline})
	colors := make([]string, 0, total)

	for i, s := range states {
		positions = append(positions, model.Position{
			X: float64(i+1) / float64(total) * Width,
			Y: Baseline - s*Unit,
		})
		colors = append(colors, Color(s))
	}
	return Visual{Colors: colors, Positions: positions}
}

// Color returns the palette color for state. Halves round up, so 0.5 maps to
// the soft positive bucket and -0.5 to neutral. Out-of-range buckets fall back
// to the neutral color.
func Color(state float64) string {
	if c, ok := palette[Bucket(state)]; ok {
		return c
	}
	return ColorNeutral
}

// Bucket rounds state to the nearest integer, halves toward positive infinity.
func Bucket(state float64) int {
	return int(math.Floor(state + 0.5))
}
