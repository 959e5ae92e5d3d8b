package editor

import "math"

// HitTolerance is the minimum distance, in canvas units, at which thin shapes
// (lines and freehand paths) still register a click.
const HitTolerance = 4.0

// HitTest reports whether p falls on the element's geometry.
// Hidden elements never hit.
func HitTest(e *Element, p Point) (bool, error) {
	if e == nil || !e.Visible {
		return false, nil
	}
	half := e.Style.StrokeWidth / 2

	switch s := e.Shape.(type) {
	case Rect:
		b, _ := Bounds(s)
		return b.Inset(half).Contains(p), nil
	case Ellipse:
		rx, ry := s.RX+half, s.RY+half
		if rx <= 0 || ry <= 0 {
			return false, nil
		}
		dx := (p.X - s.Center.X) / rx
		dy := (p.Y - s.Center.Y) / ry
		return dx*dx+dy*dy <= 1, nil
	case Line:
		return distToSegment(p, s.From, s.To) <= math.Max(HitTolerance, half), nil
	case Polygon:
		return pointInPolygon(p, s.Vertices) || nearPolyline(p, s.Vertices, true, half), nil
	case Star:
		return pointInPolygon(p, s.Vertices) || nearPolyline(p, s.Vertices, true, half), nil
	case Path:
		return nearPolyline(p, s.Points, false, math.Max(HitTolerance, half)), nil
	case Text:
		b, _ := Bounds(s)
		return b.Contains(p), nil
	default:
		return false, unknownShape(s)
	}
}

// HitTestTop returns the topmost visible element under p, walking the list in
// reverse z-order. The first hit wins.
func HitTestTop(elems []*Element, p Point) (*Element, error) {
	for i := len(elems) - 1; i >= 0; i-- {
		ok, err := HitTest(elems[i], p)
		if err != nil {
			return nil, err
		}
		if ok {
			return elems[i], nil
		}
	}
	return nil, nil
}

// distToSegment returns the distance between p and the segment ab.
func distToSegment(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Point{a.X + t*dx, a.Y + t*dy})
}

// pointInPolygon applies the even-odd rule with a horizontal ray.
func pointInPolygon(p Point, pts []Point) bool {
	in := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

func nearPolyline(p Point, pts []Point, closed bool, tol float64) bool {
	if len(pts) == 1 {
		return p.Dist(pts[0]) <= tol
	}
	for i := 1; i < len(pts); i++ {
		if distToSegment(p, pts[i-1], pts[i]) <= tol {
			return true
		}
	}
	if closed && len(pts) > 2 {
		return distToSegment(p, pts[len(pts)-1], pts[0]) <= tol
	}
	return false
}
