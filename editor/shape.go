package editor

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrUnknownShape is returned when a switch over the shape variants meets a type
// which is not one of the supported ones.
var ErrUnknownShape = errors.New("unknown shape type")

// Point is a position on the canvas.
type Point struct {
	X, Y float64
}

// Pt is a shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{p.X + dx, p.Y + dy} }

// Dist returns the euclidean distance between two points.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Style holds the paint attributes shared by every element.
type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

// DefaultStyle is used for new elements when no style panel is attached.
var DefaultStyle = Style{
	Fill:        "#4f46e5",
	Stroke:      "#1e1b4b",
	StrokeWidth: 2,
	Opacity:     1,
}

// Kind names a shape variant.
type Kind string

// The supported shape variants.
const (
	KindRect    Kind = "rect"
	KindEllipse Kind = "ellipse"
	KindLine    Kind = "line"
	KindPolygon Kind = "polygon"
	KindStar    Kind = "star"
	KindPath    Kind = "path"
	KindText    Kind = "text"
)

// Shape is the closed set of drawable geometries. The unexported marker method
// keeps the set sealed: only the types declared in this file implement it.
type Shape interface {
	Kind() Kind
	shape()
}

// Rect is an axis aligned rectangle with an optional corner radius.
type Rect struct {
	X, Y, Width, Height float64
	Radius              float64
}

// Ellipse is defined by its center and radii.
type Ellipse struct {
	Center Point
	RX, RY float64
}

// Line is a straight segment.
type Line struct {
	From, To Point
}

// Polygon is a regular polygon. Vertices are generated from the other fields.
type Polygon struct {
	Center   Point
	Radius   float64
	Sides    int
	Vertices []Point
}

// Star alternates outer and inner vertices around its center.
type Star struct {
	Center       Point
	Outer, Inner float64
	Points       int
	Vertices     []Point
}

// Path is a freehand stroke. Points are the simplified pointer samples;
// the smoothed curve is derived from them when rendering.
type Path struct {
	Points []Point
}

// Text is a single line label anchored at its baseline start.
type Text struct {
	At         Point
	Content    string
	FontSize   float64
	FontFamily string
}

func (Rect) Kind() Kind    { return KindRect }
func (Ellipse) Kind() Kind { return KindEllipse }
func (Line) Kind() Kind    { return KindLine }
func (Polygon) Kind() Kind { return KindPolygon }
func (Star) Kind() Kind    { return KindStar }
func (Path) Kind() Kind    { return KindPath }
func (Text) Kind() Kind    { return KindText }

func (Rect) shape()    {}
func (Ellipse) shape() {}
func (Line) shape()    {}
func (Polygon) shape() {}
func (Star) shape()    {}
func (Path) shape()    {}
func (Text) shape()    {}

// Element is one drawable record of the document.
type Element struct {
	ID      string
	Style   Style
	Visible bool
	Locked  bool
	Shape   Shape
}

// clone returns a copy of the element which shares nothing mutable with e.
func (e *Element) clone() *Element {
	c := *e
	c.Shape = cloneShape(e.Shape)
	return &c
}

// cloneShape deep copies the slices held by a shape.
func cloneShape(s Shape) Shape {
	switch s := s.(type) {
	case Polygon:
		s.Vertices = slices.Clone(s.Vertices)
		return s
	case Star:
		s.Vertices = slices.Clone(s.Vertices)
		return s
	case Path:
		s.Points = slices.Clone(s.Points)
		return s
	default:
		return s
	}
}

// equalElements reports whether two elements are structurally equal.
func equalElements(a, b *Element) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.ID != b.ID || a.Style != b.Style || a.Visible != b.Visible || a.Locked != b.Locked {
		return false
	}
	return equalShapes(a.Shape, b.Shape)
}

func equalShapes(a, b Shape) bool {
	switch a := a.(type) {
	case Rect, Ellipse, Line, Text:
		return a == b
	case Polygon:
		b, ok := b.(Polygon)
		return ok && a.Center == b.Center && a.Radius == b.Radius &&
			a.Sides == b.Sides && slices.Equal(a.Vertices, b.Vertices)
	case Star:
		b, ok := b.(Star)
		return ok && a.Center == b.Center && a.Outer == b.Outer && a.Inner == b.Inner &&
			a.Points == b.Points && slices.Equal(a.Vertices, b.Vertices)
	case Path:
		b, ok := b.(Path)
		return ok && slices.Equal(a.Points, b.Points)
	default:
		return false
	}
}

// unknownShape formats the error returned for an unsupported shape value.
func unknownShape(s Shape) error {
	return fmt.Errorf("%w: %T", ErrUnknownShape, s)
}
