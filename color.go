package coloring

import "image/color"

// Color is an 8-bit RGBA color value.
type Color struct {
	R, G, B, A uint8
}

// RGB creates an opaque color from 8-bit RGB components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// NRGBA converts the color to the standard library representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Dist returns the Manhattan distance between two colors, summed over the
// R, G and B channels. Alpha is ignored.
func Dist(a, b Color) int {
	return absDiff(a.R, b.R) + absDiff(a.G, b.G) + absDiff(a.B, b.B)
}

// Luminance returns the perceptual brightness of c in [0, 255], using
// integer BT.601 weights.
func Luminance(c Color) int {
	return (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a) - int(b)
	}
	return int(b) - int(a)
}

// Common colors.
var (
	White = RGB(255, 255, 255)
	Black = RGB(0, 0, 0)
)

// Palette is the default set of fill colors offered to the user.
var Palette = []Color{
	RGB(229, 57, 53),   // red
	RGB(251, 140, 0),   // orange
	RGB(253, 216, 53),  // yellow
	RGB(67, 160, 71),   // green
	RGB(30, 136, 229),  // blue
	RGB(94, 53, 177),   // purple
	RGB(233, 30, 99),   // pink
	RGB(109, 76, 65),   // brown
	RGB(117, 117, 117), // gray
	Black,
}
