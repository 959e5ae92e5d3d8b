package editor

import "strings"

// minSampleDistance drops brush samples closer than this to the previous one.
const minSampleDistance = 1.0

// QuadSegment is a quadratic Bézier segment starting at the previous segment end.
type QuadSegment struct {
	Ctrl, To Point
}

// appendSample adds p to the stroke unless it is too close to the last sample.
func appendSample(pts []Point, p Point) []Point {
	if n := len(pts); n > 0 && pts[n-1].Dist(p) < minSampleDistance {
		return pts
	}
	return append(pts, p)
}

// Smooth turns a polyline into a chain of quadratic segments using the sample
// points as control points and the midpoints between them as anchors.
// The curve starts at the first sample and ends at the last one.
//
// This is the same cheap midpoint smoothing used by most drawing widgets;
// it does not attempt curve fitting.
func Smooth(pts []Point) (Point, []QuadSegment) {
	switch len(pts) {
	case 0:
		return Point{}, nil
	case 1:
		return pts[0], nil
	case 2:
		return pts[0], []QuadSegment{{Ctrl: pts[1], To: pts[1]}}
	}
	segs := make([]QuadSegment, 0, len(pts)-1)
	for i := 1; i < len(pts)-1; i++ {
		mid := Point{(pts[i].X + pts[i+1].X) / 2, (pts[i].Y + pts[i+1].Y) / 2}
		segs = append(segs, QuadSegment{Ctrl: pts[i], To: mid})
	}
	last := pts[len(pts)-1]
	segs = append(segs, QuadSegment{Ctrl: last, To: last})
	return pts[0], segs
}

// PathData encodes the smoothed curve as an SVG path "d" attribute.
func PathData(start Point, segs []QuadSegment) string {
	var b strings.Builder
	b.WriteString("M")
	b.WriteString(formatFloat(start.X))
	b.WriteByte(' ')
	b.WriteString(formatFloat(start.Y))
	for _, s := range segs {
		b.WriteString(" Q")
		b.WriteString(formatFloat(s.Ctrl.X))
		b.WriteByte(' ')
		b.WriteString(formatFloat(s.Ctrl.Y))
		b.WriteByte(' ')
		b.WriteString(formatFloat(s.To.X))
		b.WriteByte(' ')
		b.WriteString(formatFloat(s.To.Y))
	}
	return b.String()
}
