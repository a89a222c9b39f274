// Package color maps GPU utilization onto the fan controller's RGB color.
package color

import (
	"fmt"
	"math"
)

const (
	minUsage = 0.0
	maxUsage = 100.0
)

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

var (
	// DarkBlue is shown when the GPU is idle.
	DarkBlue = Color{R: 0, G: 0, B: 139}
	// DarkRed is shown when the GPU is fully loaded.
	DarkRed = Color{R: 139, G: 0, B: 0}
)

// Hex formats the color as a lowercase "#rrggbb" string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}

// Lerp blends each channel from low towards high by factor. Results are
// truncated, not rounded. factor is expected to be within [0,1].
func Lerp(low, high Color, factor float64) Color {
	return Color{
		R: lerpChannel(low.R, high.R, factor),
		G: lerpChannel(low.G, high.G, factor),
		B: lerpChannel(low.B, high.B, factor),
	}
}

func lerpChannel(low, high uint8, factor float64) uint8 {
	return uint8(float64(low) + (float64(high)-float64(low))*factor)
}

// ClampUsage bounds a utilization percentage to [0,100]. NaN maps to 0.
func ClampUsage(usage float64) float64 {
	if math.IsNaN(usage) {
		return minUsage
	}

	return math.Max(minUsage, math.Min(maxUsage, usage))
}

// ForUsage returns the color for a utilization percentage.
func ForUsage(usage float64) Color {
	factor := ClampUsage(usage) / maxUsage
	return Lerp(DarkBlue, DarkRed, factor)
}

// Interpolate returns the hex color for a utilization percentage.
func Interpolate(usage float64) string {
	return ForUsage(usage).Hex()
}
