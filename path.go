package pixkit

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so that a quarter curve approximates a circle arc.
const kappa = 0.5522847498

type rect struct {
	x0, y0, x1, y1 float32
}

func rectOf(r image.Rectangle) rect {
	return rect{float32(r.Min.X), float32(r.Min.Y), float32(r.Max.X), float32(r.Max.Y)}
}

// roundedRect adds a closed rounded rectangle to the rasterizer path.
func roundedRect(z *vector.Rasterizer, r rect, radius float32) {
	w, h := r.x1-r.x0, r.y1-r.y0
	radius = min(radius, w/2, h/2)
	if radius <= 0 {
		z.MoveTo(r.x0, r.y0)
		z.LineTo(r.x1, r.y0)
		z.LineTo(r.x1, r.y1)
		z.LineTo(r.x0, r.y1)
		z.ClosePath()
		return
	}
	k := radius * kappa
	z.MoveTo(r.x0+radius, r.y0)
	z.LineTo(r.x1-radius, r.y0)
	z.CubeTo(r.x1-radius+k, r.y0, r.x1, r.y0+radius-k, r.x1, r.y0+radius)
	z.LineTo(r.x1, r.y1-radius)
	z.CubeTo(r.x1, r.y1-radius+k, r.x1-radius+k, r.y1, r.x1-radius, r.y1)
	z.LineTo(r.x0+radius, r.y1)
	z.CubeTo(r.x0+radius-k, r.y1, r.x0, r.y1-radius+k, r.x0, r.y1-radius)
	z.LineTo(r.x0, r.y0+radius)
	z.CubeTo(r.x0, r.y0+radius-k, r.x0+radius-k, r.y0, r.x0+radius, r.y0)
	z.ClosePath()
}

// circle adds a closed circle to the rasterizer path.
func circle(z *vector.Rasterizer, cx, cy, radius float32) {
	k := radius * kappa
	z.MoveTo(cx+radius, cy)
	z.CubeTo(cx+radius, cy+k, cx+k, cy+radius, cx, cy+radius)
	z.CubeTo(cx-k, cy+radius, cx-radius, cy+k, cx-radius, cy)
	z.CubeTo(cx-radius, cy-k, cx-k, cy-radius, cx, cy-radius)
	z.CubeTo(cx+k, cy-radius, cx+radius, cy-k, cx+radius, cy)
	z.ClosePath()
}

// fill rasterizes the path built by fn over dst with a solid color.
func fill(dst draw.Image, c color.Color, fn func(z *vector.Rasterizer)) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	fn(z)
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// roundedMask returns an alpha mask of a rounded rectangle covering size.
func roundedMask(size image.Point, radius float32) *image.Alpha {
	mask := image.NewAlpha(image.Rectangle{Max: size})
	fill(mask, color.Opaque, func(z *vector.Rasterizer) {
		roundedRect(z, rect{0, 0, float32(size.X), float32(size.Y)}, radius)
	})
	return mask
}
