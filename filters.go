package pixkit

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/pixkit/utils"
)

// Filter is one step of a filter chain, e.g. "brightness:20".
type Filter struct {
	Name string  `json:"name"`
	Arg  float64 `json:"arg,omitempty"`
}

func (f Filter) String() string {
	if !filters[f.Name].hasArg {
		return f.Name
	}
	return f.Name + ":" + strconv.FormatFloat(f.Arg, 'f', -1, 64)
}

type filterDef struct {
	hasArg   bool
	def      float64
	min, max float64
	apply    func(img *image.NRGBA, arg float64) *image.NRGBA
}

var filters = map[string]filterDef{
	"grayscale": {apply: func(img *image.NRGBA, _ float64) *image.NRGBA { return imaging.Grayscale(img) }},
	"sepia":     {apply: func(img *image.NRGBA, _ float64) *image.NRGBA { return sepia(img) }},
	"invert":    {apply: func(img *image.NRGBA, _ float64) *image.NRGBA { return imaging.Invert(img) }},
	"dither":    {apply: func(img *image.NRGBA, _ float64) *image.NRGBA { return Dither(img) }},
	"flip-h":    {apply: func(img *image.NRGBA, _ float64) *image.NRGBA { return imaging.FlipH(img) }},
	"flip-v":    {apply: func(img *image.NRGBA, _ float64) *image.NRGBA { return imaging.FlipV(img) }},
	"brightness": {hasArg: true, min: -100, max: 100, def: 10,
		apply: func(img *image.NRGBA, v float64) *image.NRGBA { return imaging.AdjustBrightness(img, v) }},
	"contrast": {hasArg: true, min: -100, max: 100, def: 10,
		apply: func(img *image.NRGBA, v float64) *image.NRGBA { return imaging.AdjustContrast(img, v) }},
	"saturation": {hasArg: true, min: -100, max: 500, def: 20,
		apply: func(img *image.NRGBA, v float64) *image.NRGBA { return imaging.AdjustSaturation(img, v) }},
	"gamma": {hasArg: true, min: 0.01, max: 10, def: 1,
		apply: func(img *image.NRGBA, v float64) *image.NRGBA { return imaging.AdjustGamma(img, v) }},
	"blur": {hasArg: true, min: 0.1, max: 100, def: 2,
		apply: func(img *image.NRGBA, v float64) *image.NRGBA { return imaging.Blur(img, v) }},
	"sharpen": {hasArg: true, min: 0.1, max: 100, def: 1,
		apply: func(img *image.NRGBA, v float64) *image.NRGBA { return imaging.Sharpen(img, v) }},
	"edge": {hasArg: true, min: 0, max: 255, def: 20,
		apply: func(img *image.NRGBA, v float64) *image.NRGBA { return SobelFilter(img, v) }},
	"rotate": {hasArg: true, min: 90, max: 270, def: 90, apply: rotate},
}

// FilterNames returns the supported filter names in alphabetical order.
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseFilters parses a comma separated chain of name[:arg] filters.
// Filters taking an argument fall back to their default when it is omitted.
func ParseFilters(chain string) ([]Filter, error) {
	var out []Filter
	for _, item := range strings.Split(chain, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, arg, hasArg := strings.Cut(item, ":")
		name = strings.ToLower(name)
		def, ok := filters[name]
		if !ok {
			return nil, fmt.Errorf("unknown filter %q, expected one of %s", name, strings.Join(FilterNames(), ", "))
		}
		f := Filter{Name: name, Arg: def.def}
		if hasArg {
			if !def.hasArg {
				return nil, fmt.Errorf("filter %q takes no argument", name)
			}
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid argument for filter %q: %w", name, err)
			}
			f.Arg = v
		}
		if err := f.validate(); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (f Filter) validate() error {
	def, ok := filters[f.Name]
	if !ok {
		return fmt.Errorf("unknown filter %q", f.Name)
	}
	if !def.hasArg {
		return nil
	}
	if f.Name == "rotate" {
		if f.Arg != 90 && f.Arg != 180 && f.Arg != 270 {
			return fmt.Errorf("rotate accepts 90, 180 or 270 degrees, got %v", f.Arg)
		}
		return nil
	}
	if f.Arg < def.min || f.Arg > def.max {
		return fmt.Errorf("filter %q argument %v outside %v..%v", f.Name, f.Arg, def.min, def.max)
	}
	return nil
}

// ApplyFilters runs the chain in order. The source image is not modified.
func ApplyFilters(img image.Image, chain []Filter) (*image.NRGBA, error) {
	dst := imaging.Clone(img)
	for _, f := range chain {
		if err := f.validate(); err != nil {
			return nil, err
		}
		dst = filters[f.Name].apply(dst, f.Arg)
		Logger().Debug("applied filter", "filter", f.String())
	}
	return dst, nil
}

func sepia(img *image.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: uint8(utils.Min(255, 0.393*r+0.769*g+0.189*b)),
			G: uint8(utils.Min(255, 0.349*r+0.686*g+0.168*b)),
			B: uint8(utils.Min(255, 0.272*r+0.534*g+0.131*b)),
			A: c.A,
		}
	})
}

func rotate(img *image.NRGBA, deg float64) *image.NRGBA {
	switch deg {
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	}
	return imaging.Rotate90(img)
}
