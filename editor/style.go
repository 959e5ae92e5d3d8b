package editor

import (
	"log/slog"

	"github.com/esimov/pixkit"
)

func logger() *slog.Logger { return pixkit.Logger() }

// ShapeDefaults holds the shape specific fields of the style panel.
type ShapeDefaults struct {
	CornerRadius float64
	Sides        int
	StarPoints   int
	// InnerRatio is the star inner radius as a fraction of the outer one.
	InnerRatio float64
	FontSize   float64
	FontFamily string
}

// DefaultShapeDefaults mirrors the initial state of the style panel.
var DefaultShapeDefaults = ShapeDefaults{
	CornerRadius: 0,
	Sides:        6,
	StarPoints:   5,
	InnerRatio:   0.5,
	FontSize:     24,
	FontFamily:   "sans-serif",
}

// StylePanel holds the pending style. The pending values are the defaults for the
// next created element and can be applied retroactively to the selection.
type StylePanel struct {
	Style  Style
	Shapes ShapeDefaults
}

// NewStylePanel returns a panel initialized with DefaultStyle and DefaultShapeDefaults.
func NewStylePanel() *StylePanel {
	return &StylePanel{Style: DefaultStyle, Shapes: DefaultShapeDefaults}
}

// Apply copies the pending style onto every selected element and commits once.
// Shape specific fields only touch the matching variants.
func (p *StylePanel) Apply(s *Store) (bool, error) {
	return s.Update(s.Selection(), func(e *Element) {
		e.Style = p.Style
		e.Shape = p.applyShape(e.Shape)
	})
}

func (p *StylePanel) applyShape(sh Shape) Shape {
	d := p.Shapes
	switch sh := sh.(type) {
	case Rect:
		sh.Radius = d.CornerRadius
		return sh
	case Polygon:
		if d.Sides >= 3 && d.Sides != sh.Sides {
			return NewPolygon(sh.Center, sh.Radius, d.Sides)
		}
		return sh
	case Star:
		inner := sh.Outer * d.InnerRatio
		if d.StarPoints >= 3 && (d.StarPoints != sh.Points || inner != sh.Inner) {
			return NewStar(sh.Center, sh.Outer, inner, d.StarPoints)
		}
		return sh
	case Text:
		if d.FontSize > 0 {
			sh.FontSize = d.FontSize
		}
		if d.FontFamily != "" {
			sh.FontFamily = d.FontFamily
		}
		return sh
	default:
		return sh
	}
}

// Set updates the pending style without touching the document.
func (p *StylePanel) Set(st Style) { p.Style = st }
