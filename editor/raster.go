package editor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/pixkit"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ExportRaster rasterizes the visible elements in z-order onto a new RGBA image.
// A nil background leaves the canvas transparent.
func ExportRaster(elems []Element, width, height int, background color.Color) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", pixkit.ErrInvalidSize, width, height)
	}
	if err := pixkit.CheckPixels(width, height); err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if background != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	}
	for i := range elems {
		e := &elems[i]
		if !e.Visible {
			continue
		}
		if t, ok := e.Shape.(Text); ok {
			drawText(dst, t, e.Style)
			continue
		}
		markup, err := elementMarkup(e)
		if err != nil {
			return nil, fmt.Errorf("rasterize %s: %w", e.ID, err)
		}
		if err := rasterizeMarkup(dst, markup); err != nil {
			return nil, fmt.Errorf("rasterize %s: %w", e.ID, err)
		}
	}
	return dst, nil
}

// rasterizeMarkup draws one element wrapped in its own SVG document.
func rasterizeMarkup(dst *image.RGBA, markup string) error {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	doc := svgDocument(markup, float64(w), float64(h))
	icon, err := oksvg.ReadIconStream(strings.NewReader(doc), oksvg.IgnoreErrorMode)
	if err != nil {
		return err
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return nil
}

// drawText renders the label with the fixed 7x13 face, scaled to the font size.
func drawText(dst *image.RGBA, t Text, st Style) {
	fill, ok := paint(st.Fill, st.Opacity)
	if !ok || t.Content == "" || t.FontSize <= 0 {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	adv := d.MeasureString(t.Content).Ceil()
	glyphH := face.Height

	src := image.NewNRGBA(image.Rect(0, 0, adv, glyphH))
	d.Dst = src
	d.Src = image.NewUniform(fill)
	d.Dot = fixed.P(0, face.Ascent)
	d.DrawString(t.Content)

	scale := t.FontSize / float64(glyphH)
	sw := int(math.Round(float64(adv) * scale))
	sh := int(math.Round(float64(glyphH) * scale))
	if sw <= 0 || sh <= 0 {
		return
	}
	scaled := imaging.Resize(src, sw, sh, imaging.Linear)

	// the text anchor is the baseline start
	top := t.At.Y - float64(face.Ascent)*scale
	at := image.Pt(int(math.Round(t.At.X)), int(math.Round(top)))
	draw.Draw(dst, scaled.Bounds().Add(at), scaled, image.Point{}, draw.Over)
}
