// Package utils holds the stateless math helpers shared by every particle
// behavior: angle conversion, 2D point math, easing curves and tint colors.
//
// Behaviors convert their angle parameters once at construction with
// DegreesToRadians; nothing in this package allocates on the per-frame path.
package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DegToRads converts degrees to radians when multiplied.
const DegToRads = math.Pi / 180

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(d float64) float64 {
	return d * DegToRads
}

// RotatePoint rotates (x, y) around the origin by angle radians.
func RotatePoint(angle, x, y float64) (float64, float64) {
	if angle == 0 {
		return x, y
	}
	s, c := math.Sincos(angle)
	return x*c - y*s, x*s + y*c
}

// Length returns the length of the vector (x, y).
func Length(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}

// Normalize scales (x, y) to unit length. The zero vector stays zero.
func Normalize(x, y float64) (float64, float64) {
	l := Length(x, y)
	if l == 0 {
		return 0, 0
	}
	return x / l, y / l
}

// ScaleBy multiplies both components of (x, y) by s.
func ScaleBy(x, y, s float64) (float64, float64) {
	return x * s, y * s
}

// White is the neutral particle tint.
var White = colorful.Color{R: 1, G: 1, B: 1}

// HexToRGB parses "#rrggbb", "rrggbb", "0xrrggbb" or the short "#rgb" form.
func HexToRGB(hex string) (colorful.Color, error) {
	s := strings.TrimSpace(hex)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return c, nil
}

// LerpColor blends a toward b in RGB space.
func LerpColor(a, b colorful.Color, t float64) colorful.Color {
	return a.BlendRgb(b, t)
}
