package colors

import (
	"fmt"
	"math"
	"strings"
)

// Scheme names a palette generation rule.
type Scheme string

// Supported palette schemes.
const (
	Complementary      Scheme = "complementary"
	Analogous          Scheme = "analogous"
	Triadic            Scheme = "triadic"
	Tetradic           Scheme = "tetradic"
	SplitComplementary Scheme = "split-complementary"
	Shades             Scheme = "shades"
	Tints              Scheme = "tints"
)

// Schemes lists every palette scheme.
var Schemes = []Scheme{Complementary, Analogous, Triadic, Tetradic, SplitComplementary, Shades, Tints}

// ParseScheme validates a scheme name.
func ParseScheme(name string) (Scheme, error) {
	for _, s := range Schemes {
		if string(s) == strings.ToLower(name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown palette scheme %q", name)
}

// hueOffsets are the rotations, in degrees, applied to the base hue.
var hueOffsets = map[Scheme][]float64{
	Complementary:      {0, 180},
	Analogous:          {-30, 0, 30},
	Triadic:            {0, 120, 240},
	Tetradic:           {0, 90, 180, 270},
	SplitComplementary: {0, 150, 210},
}

// shadeSteps is the number of colors produced by the shades and tints schemes, base included.
const shadeSteps = 5

// Palette derives a palette from base. The base color is always part of the result.
func Palette(base RGB, scheme Scheme) ([]RGB, error) {
	switch scheme {
	case Shades:
		return ramp(base, RGB{0, 0, 0}), nil
	case Tints:
		return ramp(base, RGB{255, 255, 255}), nil
	}
	offsets, ok := hueOffsets[scheme]
	if !ok {
		return nil, fmt.Errorf("unknown palette scheme %q", scheme)
	}
	hsl := RGBToHSL(base)
	out := make([]RGB, len(offsets))
	for i, off := range offsets {
		if off == 0 {
			out[i] = base
			continue
		}
		h := hsl
		h.H = math.Mod(h.H+off+360, 360)
		out[i] = HSLToRGB(h)
	}
	return out, nil
}

// ramp mixes base towards target in equal steps.
func ramp(base, target RGB) []RGB {
	out := make([]RGB, shadeSteps)
	for i := range out {
		out[i] = Mix(base, target, float64(i)/float64(shadeSteps))
	}
	return out
}
