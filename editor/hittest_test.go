package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeShape struct{}

func (fakeShape) Kind() Kind { return "fake" }
func (fakeShape) shape()     {}

func TestHitTest(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		p     Point
		want  bool
	}{
		{"rect inside", Rect{X: 0, Y: 0, Width: 10, Height: 10}, Pt(5, 5), true},
		{"rect stroke margin", Rect{X: 0, Y: 0, Width: 10, Height: 10}, Pt(10.9, 5), true},
		{"rect outside", Rect{X: 0, Y: 0, Width: 10, Height: 10}, Pt(12, 5), false},
		{"ellipse center", Ellipse{Center: Pt(50, 50), RX: 20, RY: 10}, Pt(50, 50), true},
		{"ellipse corner", Ellipse{Center: Pt(50, 50), RX: 20, RY: 10}, Pt(68, 59), false},
		{"line near", Line{From: Pt(0, 0), To: Pt(100, 0)}, Pt(50, 3), true},
		{"line far", Line{From: Pt(0, 0), To: Pt(100, 0)}, Pt(50, 6), false},
		{"line past end", Line{From: Pt(0, 0), To: Pt(100, 0)}, Pt(106, 0), false},
		{"polygon inside", NewPolygon(Pt(0, 0), 10, 6), Pt(1, 1), true},
		{"polygon outside", NewPolygon(Pt(0, 0), 10, 6), Pt(20, 0), false},
		{"star center", NewStar(Pt(0, 0), 20, 8, 5), Pt(0, 0), true},
		{"star between points", NewStar(Pt(0, 0), 20, 8, 5), Pt(0, 15), false},
		{"path near", Path{Points: []Point{{0, 0}, {10, 10}, {20, 0}}}, Pt(10, 12), true},
		{"path far", Path{Points: []Point{{0, 0}, {10, 10}, {20, 0}}}, Pt(10, 0), false},
		{"text box", Text{At: Pt(0, 20), Content: "abcd", FontSize: 10}, Pt(23, 15), true},
		{"text right of box", Text{At: Pt(0, 20), Content: "abcd", FontSize: 10}, Pt(25, 15), false},
		{"text below baseline", Text{At: Pt(0, 20), Content: "abcd", FontSize: 10}, Pt(5, 21), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Element{Style: DefaultStyle, Visible: true, Shape: tt.shape}
			got, err := HitTest(e, tt.p)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHitTest_HiddenNeverHits(t *testing.T) {
	e := &Element{Visible: false, Shape: Rect{Width: 10, Height: 10}}
	ok, err := HitTest(e, Pt(5, 5))
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestHitTest_UnknownShape(t *testing.T) {
	_, err := HitTest(&Element{Visible: true, Shape: fakeShape{}}, Pt(0, 0))
	assert.ErrorIs(t, err, ErrUnknownShape)

	_, err = Bounds(fakeShape{})
	assert.ErrorIs(t, err, ErrUnknownShape)

	_, err = Translate(fakeShape{}, 1, 1)
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestHitTestTop_TopmostWins(t *testing.T) {
	bottom := rectElem("bottom", 0)
	top := rectElem("top", 5)
	hidden := rectElem("hidden", 0)
	hidden.Visible = false

	got, err := HitTestTop([]*Element{bottom, top, hidden}, Pt(7, 5))
	assert.NoError(t, err)
	assert.Equal(t, "top", got.ID)

	got, err = HitTestTop([]*Element{bottom, top}, Pt(200, 200))
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestGeometry_RegularPolygonFirstVertexUp(t *testing.T) {
	pts := RegularPolygon(Pt(0, 0), 10, 5)
	assert.Len(t, pts, 5)
	assert.InDelta(t, 0, pts[0].X, 1e-9)
	assert.InDelta(t, -10, pts[0].Y, 1e-9)
}

func TestGeometry_StarDefaults(t *testing.T) {
	s := NewStar(Pt(0, 0), 10, 0, 2)
	assert.Equal(t, 3, s.Points)
	assert.Equal(t, 5.0, s.Inner)
	assert.Len(t, s.Vertices, 6)
	assert.InDelta(t, 5, s.Vertices[1].Dist(Pt(0, 0)), 1e-9)
}

func TestGeometry_TranslateDoesNotAlias(t *testing.T) {
	src := Path{Points: []Point{{0, 0}, {1, 1}}}
	moved, err := Translate(src, 5, 5)
	assert.NoError(t, err)
	assert.Equal(t, Point{0, 0}, src.Points[0])
	assert.Equal(t, Point{5, 5}, moved.(Path).Points[0])
}

func TestGeometry_NormRect(t *testing.T) {
	x, y, w, h := normRect(Pt(10, 10), Pt(0, 4), false)
	assert.Equal(t, []float64{0, 4, 10, 6}, []float64{x, y, w, h})

	x, y, w, h = normRect(Pt(10, 10), Pt(0, 4), true)
	assert.Equal(t, []float64{0, 0, 10, 10}, []float64{x, y, w, h})
}

func TestGeometry_SnapAngle(t *testing.T) {
	p := snapAngle(Pt(0, 0), Pt(10, 1))
	assert.InDelta(t, 0, p.Y, 1e-9)
	p = snapAngle(Pt(0, 0), Pt(10, 9))
	assert.InDelta(t, p.X, p.Y, 1e-9)
}
