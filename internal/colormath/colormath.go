// Package colormath converts between RGB and HSL and derives the punchier
// three-stop gradients used for wallpaper backgrounds.
package colormath

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// HSL holds hue in [0,360) and saturation/lightness in [0,100].
type HSL struct {
	H, S, L float64
}

func (c RGB) RGBA() color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF} }

func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// ParseHex accepts "#rrggbb", "rrggbb" and the "#rgb" shorthand.
func ParseHex(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q: expected 6-char hex", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is ParseHex for compile-time constants. It panics on bad input.
func MustHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func RGBToHSL(c RGB) HSL {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l := (maxC + minC) / 2
	if maxC == minC {
		return HSL{H: 0, S: 0, L: l * 100}
	}

	d := maxC - minC
	var s float64
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}

	var h float64
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h >= 360 {
		h -= 360
	}
	return HSL{H: h, S: s * 100, L: l * 100}
}

// HSLToRGB converts through gg's HSL constructor and rounds to 8 bits.
// Saturation and lightness are clamped; hue wraps.
func HSLToRGB(c HSL) RGB {
	return FromGG(gg.HSL(c.H, clamp(c.S, 0, 100)/100, clamp(c.L, 0, 100)/100))
}

// GG converts c to gg's float color.
func (c RGB) GG() gg.RGBA {
	return gg.RGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

// FromGG rounds a gg color to 8 bits, dropping alpha.
func FromGG(c gg.RGBA) RGB {
	return RGB{R: to8(c.R), G: to8(c.G), B: to8(c.B)}
}

// EnhanceGradient pushes the endpoints of a two-color gradient apart and
// boosts the saturation of a synthesized midpoint. The result is
// {start, mid, end}.
func EnhanceGradient(a, b RGB) [3]RGB {
	c1 := RGBToHSL(a)
	c2 := RGBToHSL(b)

	start := HSL{H: c1.H, S: clamp(c1.S+6, 0, 100), L: clamp(c1.L-6, 0, 100)}
	end := HSL{H: c2.H, S: clamp(c2.S+6, 0, 100), L: clamp(c2.L+6, 0, 100)}
	mid := HSL{
		H: (c1.H + c2.H) / 2,
		S: clamp((c1.S+c2.S)/2+10, 0, 100),
		L: clamp((c1.L+c2.L)/2, 0, 100),
	}
	return [3]RGB{HSLToRGB(start), HSLToRGB(mid), HSLToRGB(end)}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp(v, 0, 1) * 255))
}
