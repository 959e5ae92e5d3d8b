package pixkit

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/pixkit/utils"
)

// ErrInvalidSize is returned when the requested dimensions cannot be honored.
var ErrInvalidSize = errors.New("invalid target size")

// Mode selects how the target width and height are interpreted.
type Mode string

const (
	ModeFit        Mode = "fit"        // keep the aspect ratio, stay inside the box
	ModeFill       Mode = "fill"       // cover the box and crop the overflow around the center
	ModeExact      Mode = "exact"      // stretch to the box
	ModePercentage Mode = "percentage" // width and height are percentages
	ModeSquare     Mode = "square"     // crop to the shortest edge, then resize
)

// Modes lists the resize modes.
var Modes = []Mode{ModeFit, ModeFill, ModeExact, ModePercentage, ModeSquare}

// ParseMode returns the mode by name. The empty string selects ModeFit.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeFit, nil
	}
	m := Mode(strings.ToLower(s))
	if !utils.Contains(Modes, m) {
		return "", fmt.Errorf("unknown resize mode %q", s)
	}
	return m, nil
}

// FitSize scales w x h so that it fits inside maxW x maxH preserving the aspect
// ratio, bounded by the smaller of the two scale factors. A zero bound leaves
// that axis unconstrained. Images already inside the box are not enlarged.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := utils.Max(1, int(math.Round(float64(w)*scale)))
	nh := utils.Max(1, int(math.Round(float64(h)*scale)))
	return nw, nh
}

// Resize resizes img according to mode. Zero width or height are resolved per mode:
// fit treats them as unconstrained, exact preserves the aspect ratio on that axis,
// percentage reuses the other value and square uses the shortest edge.
func Resize(img image.Image, mode Mode, width, height int) (*image.NRGBA, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidSize, width, height)
	}
	b := img.Bounds()
	dx, dy := b.Dx(), b.Dy()

	switch mode {
	case ModeFit, "":
		if width == 0 && height == 0 {
			return imaging.Clone(img), nil
		}
		nw, nh := FitSize(dx, dy, width, height)
		if nw == dx && nh == dy {
			return imaging.Clone(img), nil
		}
		return imaging.Resize(img, nw, nh, imaging.Lanczos), nil
	case ModeFill:
		if width == 0 || height == 0 {
			return nil, fmt.Errorf("%w: fill needs both width and height", ErrInvalidSize)
		}
		if err := CheckPixels(width, height); err != nil {
			return nil, err
		}
		return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos), nil
	case ModeExact:
		if width == 0 && height == 0 {
			return nil, fmt.Errorf("%w: exact needs a width or a height", ErrInvalidSize)
		}
		nw, nh := width, height
		if nw == 0 {
			nw = int(math.Round(float64(dx) * float64(height) / float64(dy)))
		}
		if nh == 0 {
			nh = int(math.Round(float64(dy) * float64(width) / float64(dx)))
		}
		if err := CheckPixels(nw, nh); err != nil {
			return nil, err
		}
		return imaging.Resize(img, width, height, imaging.Lanczos), nil
	case ModePercentage:
		if height == 0 {
			height = width
		}
		if width == 0 {
			width = height
		}
		if width == 0 || width > 1000 || height > 1000 {
			return nil, fmt.Errorf("%w: percentage must be within 1..1000", ErrInvalidSize)
		}
		nw := utils.Max(1, int(math.Round(float64(dx)*float64(width)/100)))
		nh := utils.Max(1, int(math.Round(float64(dy)*float64(height)/100)))
		if err := CheckPixels(nw, nh); err != nil {
			return nil, err
		}
		return imaging.Resize(img, nw, nh, imaging.Lanczos), nil
	case ModeSquare:
		edge := utils.Min(dx, dy)
		sq := imaging.CropCenter(img, edge, edge)
		size := edge
		switch {
		case width > 0 && height > 0:
			size = utils.Min(width, height)
		case width > 0:
			size = width
		case height > 0:
			size = height
		}
		if size == edge {
			return sq, nil
		}
		return imaging.Resize(sq, size, size, imaging.Lanczos), nil
	}
	return nil, fmt.Errorf("unknown resize mode %q", mode)
}
