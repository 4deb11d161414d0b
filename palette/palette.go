// Package palette maps fish headings to display colors, so that
// aligned fish share a color.
package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	shoal "github.com/sowasser/fish-shoaling-model"
)

// Heading returns the color of a fish heading in direction v.
// The hue goes around the color wheel once as the heading turns around.
func Heading(v shoal.Vec2) colorful.Color {
	h := (v.Angle() + math.Pi) / (2 * math.Pi) * 360
	return colorful.Hsv(math.Mod(h, 360), 0.7, 0.95).Clamped()
}

// Focal is the color of the fish being followed.
var Focal = colorful.Color{R: 1, G: 0.1, B: 0.1}

// Neighbor is the color of the neighbors of the fish being followed.
var Neighbor = colorful.Color{R: 1, G: 1, B: 1}
