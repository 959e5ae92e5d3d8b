package imop

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/esimov/pixkit/utils"
)

// Porter-Duff composition operators.
const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Ops lists the supported composition operators.
var Ops = []string{Clear, Copy, Dst, SrcOver, DstOver, SrcIn, DstIn, SrcOut, DstOut, SrcAtop, DstAtop, Xor}

// Bitmap is the destination of a composition.
type Bitmap struct {
	Img *image.NRGBA
}

// NewBitmap allocates a transparent bitmap.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// Composite holds the active composition operator.
type Composite struct {
	current string
}

// InitOp returns a Composite using source-over, the operator of image/draw's Over.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// Set activates one of the supported operators.
func (op *Composite) Set(name string) error {
	if !utils.Contains(Ops, name) {
		return fmt.Errorf("unsupported composite operation %q", name)
	}
	op.current = name
	return nil
}

// Get returns the active operator.
func (op *Composite) Get() string {
	return op.current
}

// Draw composites the source onto the backdrop and stores the result in bitmap.
// Both images are expected to share the same bounds.
func (op *Composite) Draw(bitmap *Bitmap, src, dst *image.NRGBA, blend *Blend) {
	if bitmap == nil || bitmap.Img == nil || bitmap.Img.Bounds() != dst.Bounds() {
		panic("imop: bitmap and backdrop bounds differ")
	}
	copy(bitmap.Img.Pix, dst.Pix)
	op.DrawAt(bitmap.Img, src, dst.Bounds().Min, 1, blend)
}

// DrawAt composites src onto dst in place with the source top-left corner placed at pt.
// opacity scales the source alpha. Backdrop pixels not covered by the source are left untouched.
func (op *Composite) DrawAt(dst *image.NRGBA, src image.Image, pt image.Point, opacity float64, blend *Blend) {
	s := imaging.Clone(src)
	area := s.Bounds().Add(pt).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}
	opacity = utils.Clamp(opacity, 0, 1)

	for y := area.Min.Y; y < area.Max.Y; y++ {
		di := dst.PixOffset(area.Min.X, y)
		si := s.PixOffset(area.Min.X-pt.X, y-pt.Y)
		for x := area.Min.X; x < area.Max.X; x++ {
			sc := color.NRGBA{R: s.Pix[si], G: s.Pix[si+1], B: s.Pix[si+2], A: s.Pix[si+3]}
			bc := color.NRGBA{R: dst.Pix[di], G: dst.Pix[di+1], B: dst.Pix[di+2], A: dst.Pix[di+3]}
			c := op.compose(sc, bc, opacity, blend)
			dst.Pix[di], dst.Pix[di+1], dst.Pix[di+2], dst.Pix[di+3] = c.R, c.G, c.B, c.A
			di += 4
			si += 4
		}
	}
}

// factors returns the Porter-Duff weights of the source and the backdrop.
func (op *Composite) factors(as, ab float64) (fa, fb float64) {
	switch op.current {
	case Clear:
		return 0, 0
	case Copy:
		return 1, 0
	case Dst:
		return 0, 1
	case SrcOver:
		return 1, 1 - as
	case DstOver:
		return 1 - ab, 1
	case SrcIn:
		return ab, 0
	case DstIn:
		return 0, as
	case SrcOut:
		return 1 - ab, 0
	case DstOut:
		return 0, 1 - as
	case SrcAtop:
		return ab, 1 - as
	case DstAtop:
		return 1 - ab, as
	case Xor:
		return 1 - ab, 1 - as
	}
	return 1, 1 - as
}

// compose mixes one source pixel with one backdrop pixel. The blend mode, if any,
// replaces the source color where it overlaps the backdrop before the
// Porter-Duff operator is applied.
func (op *Composite) compose(s, b color.NRGBA, opacity float64, blend *Blend) color.NRGBA {
	as := float64(s.A) / 255 * opacity
	ab := float64(b.A) / 255
	cs := [3]float64{float64(s.R) / 255, float64(s.G) / 255, float64(s.B) / 255}
	cb := [3]float64{float64(b.R) / 255, float64(b.G) / 255, float64(b.B) / 255}

	if blend != nil && blend.OpType != "" && blend.OpType != Normal {
		for i := range cs {
			cs[i] = (1-ab)*cs[i] + ab*blend.apply(cb[i], cs[i])
		}
	}

	fa, fb := op.factors(as, ab)
	ao := as*fa + ab*fb
	if ao <= 0 {
		return color.NRGBA{}
	}
	var out [3]uint8
	for i := range out {
		co := (as*fa*cs[i] + ab*fb*cb[i]) / ao
		out[i] = uint8(utils.Clamp(co, 0, 1)*255 + 0.5)
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: uint8(utils.Clamp(ao, 0, 1)*255 + 0.5)}
}
