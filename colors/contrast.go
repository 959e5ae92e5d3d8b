package colors

import "math"

// WCAG 2.x contrast thresholds.
const (
	ThresholdAA       = 4.5
	ThresholdAALarge  = 3.0
	ThresholdAAA      = 7.0
	ThresholdAAALarge = 4.5
)

// Compliance reports which WCAG levels a color pair satisfies.
type Compliance struct {
	Ratio    float64 `json:"ratio"`
	AA       bool    `json:"aa"`
	AALarge  bool    `json:"aaLarge"`
	AAA      bool    `json:"aaa"`
	AAALarge bool    `json:"aaaLarge"`
}

func linear(v uint8) float64 {
	c := unit(v)
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// Luminance returns the WCAG relative luminance of c in [0, 1].
func Luminance(c RGB) float64 {
	return 0.2126*linear(c.R) + 0.7152*linear(c.G) + 0.0722*linear(c.B)
}

// Contrast returns the WCAG contrast ratio between two colors, from 1 to 21.
// The order of the arguments does not matter.
func Contrast(a, b RGB) float64 {
	la, lb := Luminance(a), Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// CheckContrast evaluates a foreground/background pair against the WCAG levels.
func CheckContrast(fg, bg RGB) Compliance {
	r := Contrast(fg, bg)
	return Compliance{
		Ratio:    math.Round(r*100) / 100,
		AA:       r >= ThresholdAA,
		AALarge:  r >= ThresholdAALarge,
		AAA:      r >= ThresholdAAA,
		AAALarge: r >= ThresholdAAALarge,
	}
}

// ReadableOn returns black or white, whichever contrasts more with bg.
func ReadableOn(bg RGB) RGB {
	black, white := RGB{}, RGB{255, 255, 255}
	if Contrast(black, bg) >= Contrast(white, bg) {
		return black
	}
	return white
}
