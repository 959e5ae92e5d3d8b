package editor

import "math"

// Box is an axis aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Center returns the middle point of the box.
func (b Box) Center() Point { return Point{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2} }

// Contains reports whether p lies inside the box, edges included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Inset grows (d > 0) or shrinks (d < 0) the box on every side.
func (b Box) Inset(d float64) Box {
	return Box{b.MinX - d, b.MinY - d, b.MaxX + d, b.MaxY + d}
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	return Box{
		math.Min(b.MinX, o.MinX), math.Min(b.MinY, o.MinY),
		math.Max(b.MaxX, o.MaxX), math.Max(b.MaxY, o.MaxY),
	}
}

func boxOf(pts []Point) Box {
	if len(pts) == 0 {
		return Box{}
	}
	b := Box{pts[0].X, pts[0].Y, pts[0].X, pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// textAdvance approximates the glyph advance as a fraction of the font size.
const textAdvance = 0.6

// Bounds returns the bounding box of a shape, stroke excluded.
func Bounds(s Shape) (Box, error) {
	switch s := s.(type) {
	case Rect:
		return Box{s.X, s.Y, s.X + s.Width, s.Y + s.Height}, nil
	case Ellipse:
		return Box{s.Center.X - s.RX, s.Center.Y - s.RY, s.Center.X + s.RX, s.Center.Y + s.RY}, nil
	case Line:
		return boxOf([]Point{s.From, s.To}), nil
	case Polygon:
		return boxOf(s.Vertices), nil
	case Star:
		return boxOf(s.Vertices), nil
	case Path:
		return boxOf(s.Points), nil
	case Text:
		w := float64(len([]rune(s.Content))) * s.FontSize * textAdvance
		return Box{s.At.X, s.At.Y - s.FontSize, s.At.X + w, s.At.Y}, nil
	default:
		return Box{}, unknownShape(s)
	}
}

// Translate returns a copy of the shape moved by (dx, dy).
func Translate(s Shape, dx, dy float64) (Shape, error) {
	switch s := s.(type) {
	case Rect:
		s.X += dx
		s.Y += dy
		return s, nil
	case Ellipse:
		s.Center = s.Center.Add(dx, dy)
		return s, nil
	case Line:
		s.From = s.From.Add(dx, dy)
		s.To = s.To.Add(dx, dy)
		return s, nil
	case Polygon:
		s.Center = s.Center.Add(dx, dy)
		s.Vertices = translatePoints(s.Vertices, dx, dy)
		return s, nil
	case Star:
		s.Center = s.Center.Add(dx, dy)
		s.Vertices = translatePoints(s.Vertices, dx, dy)
		return s, nil
	case Path:
		s.Points = translatePoints(s.Points, dx, dy)
		return s, nil
	case Text:
		s.At = s.At.Add(dx, dy)
		return s, nil
	default:
		return nil, unknownShape(s)
	}
}

// translatePoints never touches the source slice, which may be shared with a snapshot.
func translatePoints(pts []Point, dx, dy float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = p.Add(dx, dy)
	}
	return out
}

// RegularPolygon generates the vertices of a regular polygon, the first one pointing up.
func RegularPolygon(center Point, radius float64, sides int) []Point {
	if sides < 3 {
		sides = 3
	}
	pts := make([]Point, sides)
	for i := range pts {
		a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(sides)
		pts[i] = Point{center.X + radius*math.Cos(a), center.Y + radius*math.Sin(a)}
	}
	return pts
}

// StarVertices generates 2*points vertices alternating between the outer and inner radius.
func StarVertices(center Point, outer, inner float64, points int) []Point {
	if points < 3 {
		points = 3
	}
	if inner <= 0 {
		inner = outer * 0.5
	}
	n := points * 2
	pts := make([]Point, n)
	for i := range pts {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + math.Pi*float64(i)/float64(points)
		pts[i] = Point{center.X + r*math.Cos(a), center.Y + r*math.Sin(a)}
	}
	return pts
}

// NewPolygon builds a regular polygon with generated vertices.
func NewPolygon(center Point, radius float64, sides int) Polygon {
	if sides < 3 {
		sides = 3
	}
	return Polygon{Center: center, Radius: radius, Sides: sides, Vertices: RegularPolygon(center, radius, sides)}
}

// NewStar builds a star with generated vertices.
func NewStar(center Point, outer, inner float64, points int) Star {
	if points < 3 {
		points = 3
	}
	if inner <= 0 {
		inner = outer * 0.5
	}
	return Star{Center: center, Outer: outer, Inner: inner, Points: points,
		Vertices: StarVertices(center, outer, inner, points)}
}

// normRect converts two opposite corners into a rectangle with positive extent.
// With square set the shorter side is extended to match the longer one,
// growing away from the anchor.
func normRect(a, b Point, square bool) (x, y, w, h float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	if square {
		side := math.Max(math.Abs(dx), math.Abs(dy))
		dx = math.Copysign(side, dx)
		dy = math.Copysign(side, dy)
	}
	x, y = a.X, a.Y
	if dx < 0 {
		x += dx
	}
	if dy < 0 {
		y += dy
	}
	return x, y, math.Abs(dx), math.Abs(dy)
}

// snapAngle constrains b around a to the closest multiple of 45 degrees.
func snapAngle(a, b Point) Point {
	d := a.Dist(b)
	ang := math.Atan2(b.Y-a.Y, b.X-a.X)
	step := math.Pi / 4
	ang = math.Round(ang/step) * step
	return Point{a.X + d*math.Cos(ang), a.Y + d*math.Sin(ang)}
}
