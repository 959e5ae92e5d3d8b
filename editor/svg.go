package editor

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrNotSVG is returned by ImportSVG for input which is not an XML document.
var ErrNotSVG = errors.New("input is not an svg document")

// formatFloat prints coordinates with at most three decimals and no trailing zeros.
func formatFloat(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// svgSurface writes one markup primitive per draw call.
type svgSurface struct {
	b    strings.Builder
	dash []float64
}

func (s *svgSurface) SetDash(pattern []float64) { s.dash = pattern }

func (s *svgSurface) attr(name, value string) {
	s.b.WriteByte(' ')
	s.b.WriteString(name)
	s.b.WriteString(`="`)
	xml.EscapeText(&s.b, []byte(value))
	s.b.WriteByte('"')
}

func (s *svgSurface) num(name string, v float64) { s.attr(name, formatFloat(v)) }

func (s *svgSurface) style(st Style, filled bool) {
	fill := st.Fill
	if !filled || fill == "" {
		fill = "none"
	}
	stroke := st.Stroke
	if stroke == "" {
		stroke = "none"
	}
	s.attr("fill", fill)
	s.attr("stroke", stroke)
	s.num("stroke-width", st.StrokeWidth)
	if st.Opacity != 1 {
		s.num("opacity", st.Opacity)
	}
	if len(s.dash) > 0 {
		parts := make([]string, len(s.dash))
		for i, d := range s.dash {
			parts[i] = formatFloat(d)
		}
		s.attr("stroke-dasharray", strings.Join(parts, " "))
	}
}

func (s *svgSurface) Rect(r Rect, st Style) {
	s.b.WriteString("<rect")
	s.num("x", r.X)
	s.num("y", r.Y)
	s.num("width", r.Width)
	s.num("height", r.Height)
	if r.Radius > 0 {
		s.num("rx", r.Radius)
	}
	s.style(st, true)
	s.b.WriteString("/>\n")
}

func (s *svgSurface) Ellipse(e Ellipse, st Style) {
	s.b.WriteString("<ellipse")
	s.num("cx", e.Center.X)
	s.num("cy", e.Center.Y)
	s.num("rx", e.RX)
	s.num("ry", e.RY)
	s.style(st, true)
	s.b.WriteString("/>\n")
}

func (s *svgSurface) Line(from, to Point, st Style) {
	s.b.WriteString("<line")
	s.num("x1", from.X)
	s.num("y1", from.Y)
	s.num("x2", to.X)
	s.num("y2", to.Y)
	s.style(st, false)
	s.attr("stroke-linecap", "round")
	s.b.WriteString("/>\n")
}

func (s *svgSurface) Polygon(pts []Point, st Style) {
	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = formatFloat(p.X) + "," + formatFloat(p.Y)
	}
	s.b.WriteString("<polygon")
	s.attr("points", strings.Join(coords, " "))
	s.style(st, true)
	s.b.WriteString("/>\n")
}

func (s *svgSurface) Path(start Point, segs []QuadSegment, st Style) {
	s.b.WriteString("<path")
	s.attr("d", PathData(start, segs))
	s.style(st, false)
	s.attr("stroke-linecap", "round")
	s.attr("stroke-linejoin", "round")
	s.b.WriteString("/>\n")
}

func (s *svgSurface) Text(t Text, st Style) {
	s.b.WriteString("<text")
	s.num("x", t.At.X)
	s.num("y", t.At.Y)
	s.num("font-size", t.FontSize)
	if t.FontFamily != "" {
		s.attr("font-family", t.FontFamily)
	}
	s.style(st, true)
	s.b.WriteByte('>')
	xml.EscapeText(&s.b, []byte(t.Content))
	s.b.WriteString("</text>\n")
}

// elementMarkup returns the markup of a single element.
func elementMarkup(e *Element) (string, error) {
	var s svgSurface
	if err := drawElement(&s, e); err != nil {
		return "", err
	}
	return s.b.String(), nil
}

func svgDocument(body string, width, height float64) string {
	w, h := formatFloat(width), formatFloat(height)
	return `<svg xmlns="http://www.w3.org/2000/svg" width="` + w + `" height="` + h +
		`" viewBox="0 0 ` + w + ` ` + h + `">` + "\n" + body + "</svg>\n"
}

// ExportSVG writes a standalone SVG document with one primitive per visible element.
func ExportSVG(w io.Writer, elems []Element, width, height float64) error {
	var s svgSurface
	if err := Render(&s, elems, nil); err != nil {
		return err
	}
	_, err := io.WriteString(w, svgDocument(s.b.String(), width, height))
	return err
}

// ImportSVG reads rect, circle and ellipse primitives from an SVG document,
// wherever they are nested. Every other element is skipped and malformed numbers
// read as zero. Input which does not even start as XML is rejected with ErrNotSVG;
// a document truncated later keeps the elements read so far.
func ImportSVG(r io.Reader, ids IDGenerator) ([]Element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var (
		out     []Element
		started bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !started {
				return nil, fmt.Errorf("%w: %v", ErrNotSVG, err)
			}
			logger().Warn("editor svg import stopped early", "error", err, "elements", len(out))
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		started = true
		var sh Shape
		a := attrMap(se.Attr)
		switch se.Name.Local {
		case "rect":
			sh = Rect{X: a.num("x"), Y: a.num("y"), Width: a.num("width"), Height: a.num("height"), Radius: a.num("rx")}
		case "circle":
			r := a.num("r")
			sh = Ellipse{Center: Point{a.num("cx"), a.num("cy")}, RX: r, RY: r}
		case "ellipse":
			sh = Ellipse{Center: Point{a.num("cx"), a.num("cy")}, RX: a.num("rx"), RY: a.num("ry")}
		default:
			continue
		}
		out = append(out, Element{ID: ids.NextID(), Style: a.style(), Visible: true, Shape: sh})
	}
	if !started {
		return nil, ErrNotSVG
	}
	return out, nil
}

type attrs map[string]string

func attrMap(list []xml.Attr) attrs {
	a := make(attrs, len(list))
	for _, at := range list {
		a[at.Name.Local] = strings.TrimSpace(at.Value)
	}
	// inline style declarations win over presentation attributes
	for _, decl := range strings.Split(a["style"], ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok {
			a[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return a
}

func (a attrs) num(name string) float64 {
	v := strings.TrimSuffix(a[name], "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func (a attrs) style() Style {
	st := Style{Fill: "#000000", Stroke: "none", StrokeWidth: 1, Opacity: 1}
	if v, ok := a["fill"]; ok && v != "" {
		st.Fill = v
	}
	if v, ok := a["stroke"]; ok && v != "" {
		st.Stroke = v
	}
	if _, ok := a["stroke-width"]; ok {
		st.StrokeWidth = a.num("stroke-width")
	}
	if _, ok := a["opacity"]; ok {
		st.Opacity = a.num("opacity")
	}
	return st
}
