package pixkit

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/pixkit/utils"
)

type kernel [3][3]int32

var (
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// SobelFilter detects image edges. Gradient magnitudes not above threshold are dropped.
// See https://en.wikipedia.org/wiki/Sobel_operator
func SobelFilter(img image.Image, threshold float64) *image.NRGBA {
	gray := imaging.Grayscale(img)
	dx, dy := gray.Bounds().Dx(), gray.Bounds().Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, dx, dy))

	// The image is grayscale, so the R channel carries the luminance.
	lum := func(x, y int) int32 {
		x = utils.Clamp(x, 0, dx-1)
		y = utils.Clamp(y, 0, dy-1)
		return int32(gray.Pix[y*gray.Stride+x*4])
	}

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			var sumX, sumY int32
			for ky := 0; ky < 3; ky++ {
				for kx := 0; kx < 3; kx++ {
					v := lum(x+kx-1, y+ky-1)
					sumX += v * kernelX[ky][kx]
					sumY += v * kernelY[ky][kx]
				}
			}
			magnitude := math.Min(255, math.Sqrt(float64(sumX*sumX+sumY*sumY)))
			if magnitude <= threshold {
				magnitude = 0
			}
			i := dst.PixOffset(x, y)
			m := uint8(magnitude)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = m, m, m, 255
		}
	}
	return dst
}
