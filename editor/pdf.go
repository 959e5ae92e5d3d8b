package editor

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// pdfSurface draws on a single gofpdf page using point units, which keeps
// canvas coordinates unchanged.
type pdfSurface struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newPDFSurface(width, height float64) *pdfSurface {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &pdfSurface{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (s *pdfSurface) SetDash(pattern []float64) { s.pdf.SetDashPattern(pattern, 0) }

// apply sets the paint state and returns the gofpdf style string.
// An empty result means nothing would be visible.
func (s *pdfSurface) apply(st Style, filled bool) string {
	var mode string
	if c, ok := paint(st.Fill, 1); ok && filled {
		s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		mode += "F"
	}
	if c, ok := paint(st.Stroke, 1); ok && st.StrokeWidth > 0 {
		s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		s.pdf.SetLineWidth(st.StrokeWidth)
		mode = "D" + mode
	}
	s.pdf.SetAlpha(clampUnit(st.Opacity), "Normal")
	return mode
}

func (s *pdfSurface) Rect(r Rect, st Style) {
	mode := s.apply(st, true)
	if mode == "" {
		return
	}
	if r.Radius <= 0 {
		s.pdf.Rect(r.X, r.Y, r.Width, r.Height, mode)
		return
	}
	rad := math.Min(r.Radius, math.Min(r.Width, r.Height)/2)
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.Width, r.Y+r.Height
	p := s.pdf
	p.MoveTo(x0+rad, y0)
	p.LineTo(x1-rad, y0)
	p.CurveTo(x1, y0, x1, y0+rad)
	p.LineTo(x1, y1-rad)
	p.CurveTo(x1, y1, x1-rad, y1)
	p.LineTo(x0+rad, y1)
	p.CurveTo(x0, y1, x0, y1-rad)
	p.LineTo(x0, y0+rad)
	p.CurveTo(x0, y0, x0+rad, y0)
	p.ClosePath()
	p.DrawPath(mode)
}

func (s *pdfSurface) Ellipse(e Ellipse, st Style) {
	if mode := s.apply(st, true); mode != "" {
		s.pdf.Ellipse(e.Center.X, e.Center.Y, e.RX, e.RY, 0, mode)
	}
}

func (s *pdfSurface) Line(from, to Point, st Style) {
	if mode := s.apply(st, false); mode != "" {
		s.pdf.SetLineCapStyle("round")
		s.pdf.Line(from.X, from.Y, to.X, to.Y)
	}
}

func (s *pdfSurface) Polygon(pts []Point, st Style) {
	mode := s.apply(st, true)
	if mode == "" || len(pts) < 3 {
		return
	}
	list := make([]gofpdf.PointType, len(pts))
	for i, p := range pts {
		list[i] = gofpdf.PointType{X: p.X, Y: p.Y}
	}
	s.pdf.Polygon(list, mode)
}

func (s *pdfSurface) Path(start Point, segs []QuadSegment, st Style) {
	mode := s.apply(st, false)
	if mode == "" || len(segs) == 0 {
		return
	}
	s.pdf.SetLineCapStyle("round")
	s.pdf.SetLineJoinStyle("round")
	s.pdf.MoveTo(start.X, start.Y)
	for _, seg := range segs {
		s.pdf.CurveTo(seg.Ctrl.X, seg.Ctrl.Y, seg.To.X, seg.To.Y)
	}
	s.pdf.DrawPath(mode)
}

func (s *pdfSurface) Text(t Text, st Style) {
	c, ok := paint(st.Fill, 1)
	if !ok || t.FontSize <= 0 {
		return
	}
	s.pdf.SetAlpha(clampUnit(st.Opacity), "Normal")
	s.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetFont(pdfFont(t.FontFamily), "", t.FontSize)
	s.pdf.Text(t.At.X, t.At.Y, s.tr(t.Content))
}

// pdfFont maps a CSS font family onto one of the PDF core fonts.
func pdfFont(family string) string {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "mono"), strings.Contains(f, "courier"):
		return "Courier"
	case strings.Contains(f, "sans"), strings.Contains(f, "helvetica"), strings.Contains(f, "arial"):
		return "Helvetica"
	case strings.Contains(f, "serif"), strings.Contains(f, "times"):
		return "Times"
	}
	return "Helvetica"
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// ExportPDF writes the visible elements as a single page PDF document of the
// given size in points.
func ExportPDF(w io.Writer, elems []Element, width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid page size %gx%g", width, height)
	}
	s := newPDFSurface(width, height)
	if err := Render(s, elems, nil); err != nil {
		return err
	}
	if err := s.pdf.Error(); err != nil {
		return fmt.Errorf("pdf export: %w", err)
	}
	return s.pdf.Output(w)
}
