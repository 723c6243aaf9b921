package timeline

import (
	"image/color"
	"math"
)

// HSL converts a hue in degrees and saturation/lightness in [0, 1] to RGBA.
// From https://en.wikipedia.org/wiki/HSL_and_HSV#HSL_to_RGB
func HSL(h, s, l float64) color.RGBA {
	c := (1.0 - math.Abs(2.0*l-1.0)) * s
	hp := math.Mod(h/60.0, 6.0)
	x := c * (1.0 - math.Abs(math.Mod(hp, 2.0)-1.0))

	var r1, g1, b1 float64
	switch {
	case hp < 1.0:
		r1, g1, b1 = c, x, 0.0
	case hp < 2.0:
		r1, g1, b1 = x, c, 0.0
	case hp < 3.0:
		r1, g1, b1 = 0.0, c, x
	case hp < 4.0:
		r1, g1, b1 = 0.0, x, c
	case hp < 5.0:
		r1, g1, b1 = x, 0.0, c
	default:
		r1, g1, b1 = c, 0.0, x
	}

	m := l - c/2.0
	f := func(v float64) uint8 {
		return uint8(math.Round(math.Min(math.Max(v+m, 0.0), 1.0) * 255))
	}

	return color.RGBA{R: f(r1), G: f(g1), B: f(b1), A: 255}
}
