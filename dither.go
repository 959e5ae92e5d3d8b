package pixkit

import (
	"image"

	"github.com/disintegration/imaging"
)

// Dither converts the image to black and white with Floyd-Steinberg error
// diffusion. The alpha channel is preserved.
func Dither(src image.Image) *image.NRGBA {
	dst := imaging.Grayscale(src)
	dx, dy := dst.Bounds().Dx(), dst.Bounds().Dy()

	// Two rows of accumulated error are enough for the diffusion pattern.
	cur := make([]float64, dx+2)
	next := make([]float64, dx+2)

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			i := dst.PixOffset(x, y)
			old := float64(dst.Pix[i]) + cur[x+1]
			var v uint8
			if old >= 128 {
				v = 255
			}
			e := old - float64(v)
			cur[x+2] += e * 7 / 16
			next[x] += e * 3 / 16
			next[x+1] += e * 5 / 16
			next[x+2] += e * 1 / 16
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = v, v, v
		}
		cur, next = next, cur
		for i := range next {
			next[i] = 0
		}
	}
	return dst
}
