// Package colors converts colors between the usual notations (hex, RGB, HSL,
// HSV, CMYK), measures WCAG contrast and derives palettes.
package colors

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/esimov/pixkit/utils"
)

// ErrInvalidColor is returned for color strings which cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// RGB is an opaque 8 bit per channel color.
type RGB struct {
	R, G, B uint8
}

// HSL holds hue in degrees [0, 360) and saturation and lightness in percent.
type HSL struct {
	H, S, L float64
}

// HSV holds hue in degrees [0, 360) and saturation and value in percent.
type HSV struct {
	H, S, V float64
}

// CMYK holds the four ink coverages in percent.
type CMYK struct {
	C, M, Y, K float64
}

// named is the small set of CSS keywords accepted by Parse.
var named = map[string]RGB{
	"black":   {0, 0, 0},
	"white":   {255, 255, 255},
	"red":     {255, 0, 0},
	"lime":    {0, 255, 0},
	"green":   {0, 128, 0},
	"blue":    {0, 0, 255},
	"yellow":  {255, 255, 0},
	"cyan":    {0, 255, 255},
	"magenta": {255, 0, 255},
	"gray":    {128, 128, 128},
	"grey":    {128, 128, 128},
	"orange":  {255, 165, 0},
	"purple":  {128, 0, 128},
	"navy":    {0, 0, 128},
	"teal":    {0, 128, 128},
	"silver":  {192, 192, 192},
}

// HexToRGB parses 3 or 6 digit hex notation, with or without the leading '#'.
func HexToRGB(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// RGBToHex formats c as "#rrggbb".
func RGBToHex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Parse accepts hex notation, rgb()/rgba() functional notation and a few CSS keywords.
// The alpha component of rgba() is ignored.
func Parse(s string) (RGB, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[v]; ok {
		return c, nil
	}
	if args, ok := cssArgs(v, "rgb"); ok {
		return parseRGBArgs(s, args)
	}
	if args, ok := cssArgs(v, "rgba"); ok {
		return parseRGBArgs(s, args)
	}
	if args, ok := cssArgs(v, "hsl"); ok && len(args) >= 3 {
		var f [3]float64
		for i := range f {
			n, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(args[i], "%"), "deg"), 64)
			if err != nil {
				return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
			}
			f[i] = n
		}
		return HSLToRGB(HSL{f[0], f[1], f[2]}), nil
	}
	return HexToRGB(v)
}

func cssArgs(v, fn string) ([]string, bool) {
	if !strings.HasPrefix(v, fn+"(") || !strings.HasSuffix(v, ")") {
		return nil, false
	}
	inner := v[len(fn)+1 : len(v)-1]
	fields := strings.FieldsFunc(inner, func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	return fields, true
}

func parseRGBArgs(src string, args []string) (RGB, error) {
	if len(args) < 3 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, src)
	}
	var ch [3]uint8
	for i := range ch {
		a := args[i]
		pct := strings.HasSuffix(a, "%")
		n, err := strconv.ParseFloat(strings.TrimSuffix(a, "%"), 64)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, src)
		}
		if pct {
			n = n * 255 / 100
		}
		ch[i] = uint8(math.Round(utils.Clamp(n, 0, 255)))
	}
	return RGB{ch[0], ch[1], ch[2]}, nil
}

// NRGBA converts c to a non premultiplied color with the given opacity in [0, 1].
func (c RGB) NRGBA(opacity float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(utils.Clamp(opacity, 0, 1) * 255))}
}

// FromColor converts any color.Color, ignoring alpha.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{n.R, n.G, n.B}
}

// Hex is a shorthand for RGBToHex.
func (c RGB) Hex() string { return RGBToHex(c) }

// CSS formats c in rgb() notation.
func (c RGB) CSS() string { return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B) }

// CSS formats h in hsl() notation with rounded components.
func (h HSL) CSS() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", int(math.Round(h.H)), int(math.Round(h.S)), int(math.Round(h.L)))
}

// CSS formats h in the hsv() notation used by color pickers.
func (h HSV) CSS() string {
	return fmt.Sprintf("hsv(%d, %d%%, %d%%)", int(math.Round(h.H)), int(math.Round(h.S)), int(math.Round(h.V)))
}

// CSS formats c in the device-cmyk() notation.
func (c CMYK) CSS() string {
	return fmt.Sprintf("device-cmyk(%d%% %d%% %d%% %d%%)",
		int(math.Round(c.C)), int(math.Round(c.M)), int(math.Round(c.Y)), int(math.Round(c.K)))
}

func unit(v uint8) float64 { return float64(v) / 255 }

func toByte(v float64) uint8 { return uint8(math.Round(utils.Clamp(v, 0, 1) * 255)) }

// hueOf returns the hue in degrees together with the channel extremes.
func hueOf(c RGB) (h, max, min float64) {
	r, g, b := unit(c.R), unit(c.G), unit(c.B)
	max = math.Max(r, math.Max(g, b))
	min = math.Min(r, math.Min(g, b))
	d := max - min
	if d == 0 {
		return 0, max, min
	}
	switch max {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, max, min
}

// RGBToHSL converts c to HSL.
func RGBToHSL(c RGB) HSL {
	h, max, min := hueOf(c)
	l := (max + min) / 2
	var s float64
	if d := max - min; d != 0 {
		s = d / (1 - math.Abs(2*l-1))
	}
	return HSL{H: h, S: s * 100, L: l * 100}
}

// HSLToRGB converts h to RGB. Out of range components are clamped and the hue wraps.
func HSLToRGB(h HSL) RGB {
	hue := math.Mod(math.Mod(h.H, 360)+360, 360)
	s := utils.Clamp(h.S, 0, 100) / 100
	l := utils.Clamp(h.L, 0, 100) / 100
	c := (1 - math.Abs(2*l-1)) * s
	return fromChroma(hue, c, l-c/2)
}

// RGBToHSV converts c to HSV.
func RGBToHSV(c RGB) HSV {
	h, max, min := hueOf(c)
	var s float64
	if max != 0 {
		s = (max - min) / max
	}
	return HSV{H: h, S: s * 100, V: max * 100}
}

// HSVToRGB converts h to RGB.
func HSVToRGB(h HSV) RGB {
	hue := math.Mod(math.Mod(h.H, 360)+360, 360)
	s := utils.Clamp(h.S, 0, 100) / 100
	v := utils.Clamp(h.V, 0, 100) / 100
	c := v * s
	return fromChroma(hue, c, v-c)
}

func fromChroma(hue, c, m float64) RGB {
	x := c * (1 - math.Abs(math.Mod(hue/60, 2)-1))
	var r, g, b float64
	switch {
	case hue < 60:
		r, g, b = c, x, 0
	case hue < 120:
		r, g, b = x, c, 0
	case hue < 180:
		r, g, b = 0, c, x
	case hue < 240:
		r, g, b = 0, x, c
	case hue < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return RGB{toByte(r + m), toByte(g + m), toByte(b + m)}
}

// RGBToCMYK converts c to CMYK.
func RGBToCMYK(c RGB) CMYK {
	r, g, b := unit(c.R), unit(c.G), unit(c.B)
	k := 1 - math.Max(r, math.Max(g, b))
	if k == 1 {
		return CMYK{K: 100}
	}
	return CMYK{
		C: (1 - r - k) / (1 - k) * 100,
		M: (1 - g - k) / (1 - k) * 100,
		Y: (1 - b - k) / (1 - k) * 100,
		K: k * 100,
	}
}

// CMYKToRGB converts c to RGB.
func CMYKToRGB(c CMYK) RGB {
	k := 1 - utils.Clamp(c.K, 0, 100)/100
	return RGB{
		toByte((1 - utils.Clamp(c.C, 0, 100)/100) * k),
		toByte((1 - utils.Clamp(c.M, 0, 100)/100) * k),
		toByte((1 - utils.Clamp(c.Y, 0, 100)/100) * k),
	}
}

// Mix interpolates linearly between a and b; t = 0 yields a, t = 1 yields b.
func Mix(a, b RGB, t float64) RGB {
	t = utils.Clamp(t, 0, 1)
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return RGB{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B)}
}

// Invert returns the complement of every channel.
func Invert(c RGB) RGB {
	return RGB{255 - c.R, 255 - c.G, 255 - c.B}
}
