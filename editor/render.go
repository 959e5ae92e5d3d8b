package editor

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/esimov/pixkit/colors"
)

// Surface is the minimal set of drawing primitives the renderer needs.
// Implementations exist for SVG markup, raster images and PDF documents.
type Surface interface {
	Rect(r Rect, st Style)
	Ellipse(e Ellipse, st Style)
	Line(from, to Point, st Style)
	Polygon(pts []Point, st Style)
	Path(start Point, segs []QuadSegment, st Style)
	Text(t Text, st Style)
}

// Dasher is implemented by surfaces able to stroke dashed outlines.
type Dasher interface {
	SetDash(pattern []float64)
}

// SelectionStyle is used for the selection decoration.
var SelectionStyle = Style{Fill: "none", Stroke: "#0ea5e9", StrokeWidth: 1, Opacity: 1}

// selectionDash is the dash pattern of the selection boxes.
var selectionDash = []float64{4, 3}

// selectionPad separates the decoration from the element bounds.
const selectionPad = 3

// Render draws the visible elements in z-order followed by a dashed bounding box
// around every selected one.
func Render(s Surface, elems []Element, selection []string) error {
	for i := range elems {
		e := &elems[i]
		if !e.Visible {
			continue
		}
		if err := drawElement(s, e); err != nil {
			return fmt.Errorf("render %s: %w", e.ID, err)
		}
	}
	if len(selection) == 0 {
		return nil
	}
	d, dashed := s.(Dasher)
	if dashed {
		d.SetDash(selectionDash)
		defer d.SetDash(nil)
	}
	for i := range elems {
		e := &elems[i]
		if !e.Visible || !slices.Contains(selection, e.ID) {
			continue
		}
		b, err := Bounds(e.Shape)
		if err != nil {
			return err
		}
		b = b.Inset(e.Style.StrokeWidth/2 + selectionPad)
		s.Rect(Rect{X: b.MinX, Y: b.MinY, Width: b.Width(), Height: b.Height()}, SelectionStyle)
	}
	return nil
}

func drawElement(s Surface, e *Element) error {
	switch sh := e.Shape.(type) {
	case Rect:
		s.Rect(sh, e.Style)
	case Ellipse:
		s.Ellipse(sh, e.Style)
	case Line:
		s.Line(sh.From, sh.To, e.Style)
	case Polygon:
		s.Polygon(sh.Vertices, e.Style)
	case Star:
		s.Polygon(sh.Vertices, e.Style)
	case Path:
		start, segs := Smooth(sh.Points)
		s.Path(start, segs, e.Style)
	case Text:
		s.Text(sh, e.Style)
	default:
		return unknownShape(sh)
	}
	return nil
}

// paint resolves a CSS color with the element opacity applied.
// It reports false for "none", empty and unparsable values.
func paint(css string, opacity float64) (color.NRGBA, bool) {
	if css == "" || css == "none" || css == "transparent" {
		return color.NRGBA{}, false
	}
	c, err := colors.Parse(css)
	if err != nil {
		logger().Warn("editor ignored unparsable color", "color", css)
		return color.NRGBA{}, false
	}
	return c.NRGBA(opacity), true
}
