package pixkit

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/pixkit/colors"
	"github.com/esimov/pixkit/imop"
	"github.com/esimov/pixkit/utils"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Position anchors a watermark inside the image.
type Position string

const (
	TopLeft     Position = "top-left"
	TopRight    Position = "top-right"
	BottomLeft  Position = "bottom-left"
	BottomRight Position = "bottom-right"
	Center      Position = "center"
)

// Positions lists the watermark anchors.
var Positions = []Position{TopLeft, TopRight, BottomLeft, BottomRight, Center}

// Watermark describes a text or an image mark. Exactly one of Text and Image must be set.
type Watermark struct {
	Text  string
	Image image.Image
	// Scale multiplies the 7x13 glyphs of a text mark. For image marks it is the
	// mark width relative to the target width.
	Scale    float64
	Color    string
	Opacity  float64
	Position Position
	Margin   int
	Tile     bool
	Blend    string
}

func (wm *Watermark) defaults() error {
	if (wm.Text == "") == (wm.Image == nil) {
		return errors.New("a watermark needs either a text or an image")
	}
	if wm.Position == "" {
		wm.Position = BottomRight
	}
	if !utils.Contains(Positions, wm.Position) {
		return fmt.Errorf("unknown watermark position %q", wm.Position)
	}
	if wm.Opacity <= 0 || wm.Opacity > 1 {
		wm.Opacity = 0.5
	}
	if wm.Color == "" {
		wm.Color = "#ffffff"
	}
	if wm.Scale <= 0 {
		if wm.Image != nil {
			wm.Scale = 0.2
		} else {
			wm.Scale = 2
		}
	}
	if wm.Margin < 0 {
		wm.Margin = 0
	}
	return nil
}

// mark renders the watermark at its final size relative to a target width.
func (wm *Watermark) mark(targetWidth int) (*image.NRGBA, error) {
	if wm.Image != nil {
		w := utils.Max(1, int(math.Round(float64(targetWidth)*math.Min(wm.Scale, 1))))
		mb := wm.Image.Bounds()
		if mb.Empty() {
			return nil, fmt.Errorf("%w: empty watermark image", ErrInvalidSize)
		}
		if err := CheckPixels(w, int(math.Round(float64(w)*float64(mb.Dy())/float64(mb.Dx())))); err != nil {
			return nil, err
		}
		return imaging.Resize(wm.Image, w, 0, imaging.Lanczos), nil
	}
	c, err := colors.Parse(wm.Color)
	if err != nil {
		return nil, err
	}
	face := basicfont.Face7x13
	lines := strings.Split(wm.Text, "\n")
	var width int
	for _, l := range lines {
		width = utils.Max(width, font.MeasureString(face, l).Ceil())
	}
	lineHeight := face.Metrics().Height.Ceil()
	text := image.NewNRGBA(image.Rect(0, 0, utils.Max(1, width), lineHeight*len(lines)))

	d := font.Drawer{Dst: text, Src: image.NewUniform(c.NRGBA(1)), Face: face}
	for i, l := range lines {
		d.Dot = fixed.P(0, i*lineHeight+face.Metrics().Ascent.Ceil())
		d.DrawString(l)
	}
	if wm.Scale == 1 {
		return text, nil
	}
	w := utils.Max(1, int(math.Round(float64(text.Bounds().Dx())*wm.Scale)))
	h := utils.Max(1, int(math.Round(float64(text.Bounds().Dy())*wm.Scale)))
	if err := CheckPixels(w, h); err != nil {
		return nil, err
	}
	return imaging.Resize(text, w, h, imaging.NearestNeighbor), nil
}

// anchor returns the top-left corner of a mark of size m inside b.
func anchor(b image.Rectangle, m image.Point, pos Position, margin int) image.Point {
	var p image.Point
	switch pos {
	case TopLeft:
		p = image.Pt(b.Min.X+margin, b.Min.Y+margin)
	case TopRight:
		p = image.Pt(b.Max.X-m.X-margin, b.Min.Y+margin)
	case BottomLeft:
		p = image.Pt(b.Min.X+margin, b.Max.Y-m.Y-margin)
	case BottomRight:
		p = image.Pt(b.Max.X-m.X-margin, b.Max.Y-m.Y-margin)
	default:
		p = image.Pt(b.Min.X+(b.Dx()-m.X)/2, b.Min.Y+(b.Dy()-m.Y)/2)
	}
	return p
}

// ApplyWatermark composites the mark over a copy of img.
func ApplyWatermark(img image.Image, wm Watermark) (*image.NRGBA, error) {
	if err := wm.defaults(); err != nil {
		return nil, err
	}
	dst := imaging.Clone(img)
	mark, err := wm.mark(dst.Bounds().Dx())
	if err != nil {
		return nil, err
	}

	op := imop.InitOp()
	var blend *imop.Blend
	if wm.Blend != "" {
		blend = imop.NewBlend()
		if err := blend.Set(wm.Blend); err != nil {
			return nil, err
		}
	}

	size := mark.Bounds().Size()
	if !wm.Tile {
		op.DrawAt(dst, mark, anchor(dst.Bounds(), size, wm.Position, wm.Margin), wm.Opacity, blend)
		return dst, nil
	}

	gap := utils.Max(wm.Margin, size.Y)
	for y := 0; y < dst.Bounds().Dy(); y += size.Y + gap {
		// Every other row is shifted by half a step.
		offset := 0
		if (y/(size.Y+gap))%2 == 1 {
			offset = (size.X + gap) / 2
		}
		for x := -offset; x < dst.Bounds().Dx(); x += size.X + gap {
			op.DrawAt(dst, mark, image.Pt(x, y), wm.Opacity, blend)
		}
	}
	return dst, nil
}
