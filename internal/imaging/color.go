package imaging

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorInfo describes one color in the formats a client typically needs
// to reproduce a palette: a hex string for CSS, raw RGB, and HSL.
type ColorInfo struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGB      `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// Colorful converts the 8-bit color to a go-colorful Color with channels
// in [0,1].
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Hex returns the color as an upper-case "#RRGGBB" string.
func (c RGB) Hex() string {
	return strings.ToUpper(c.Colorful().Hex())
}

// DescribeColor returns the hex, RGB and HSL forms of c.
//
// HSL values are truncated to integers: hue in degrees, saturation and
// lightness in percent. Achromatic colors report a hue of 0.
func DescribeColor(c RGB) ColorInfo {
	h, s, l := c.Colorful().Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorInfo{
		Hex: c.Hex(),
		RGB: c,
		HSL: HSLColor{
			H: int(h),
			S: int(s * 100),
			L: int(l * 100),
		},
	}
}
