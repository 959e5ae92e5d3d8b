package pixkit

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockup_Devices(t *testing.T) {
	blue := color.NRGBA{R: 0x33, G: 0x66, B: 0xff, A: 255}
	shot := solid(300, 600, blue)

	for _, d := range Devices {
		t.Run(string(d), func(t *testing.T) {
			img, err := Mockup(shot, MockupOptions{Device: d, Padding: 20})
			assert.NoError(t, err)

			spec := devices[d]
			assert.Equal(t, spec.size.Add(image.Pt(40, 40)), img.Bounds().Size())

			screen := spec.screen.Add(image.Pt(20, 20))
			c := image.Pt((screen.Min.X+screen.Max.X)/2, (screen.Min.Y+screen.Max.Y)/2)
			assert.Equal(t, blue, img.NRGBAAt(c.X, c.Y))
			assert.Zero(t, img.NRGBAAt(0, 0).A)
		})
	}
}

func TestMockup_BackgroundAndShadow(t *testing.T) {
	shot := solid(100, 100, color.NRGBA{R: 255, A: 255})

	img, err := Mockup(shot, MockupOptions{Device: Tablet, Background: "#ffffff"})
	assert.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, img.NRGBAAt(2, 2))

	pad := 48
	below := image.Pt(pad+410, pad+1080+6)

	plain, err := Mockup(shot, MockupOptions{Device: Tablet})
	assert.NoError(t, err)
	assert.Zero(t, plain.NRGBAAt(below.X, below.Y).A)

	shadow, err := Mockup(shot, MockupOptions{Device: Tablet, Shadow: true})
	assert.NoError(t, err)
	assert.Positive(t, shadow.NRGBAAt(below.X, below.Y).A)
}

func TestMockup_Invalid(t *testing.T) {
	shot := solid(10, 10, color.NRGBA{A: 255})
	_, err := Mockup(shot, MockupOptions{Device: "watch"})
	assert.Error(t, err)
	_, err = Mockup(shot, MockupOptions{Frame: "#zz"})
	assert.Error(t, err)
	_, err = Mockup(shot, MockupOptions{Padding: 10000})
	assert.ErrorIs(t, err, ErrInvalidSize)

	d, err := ParseDevice("Laptop")
	assert.NoError(t, err)
	assert.Equal(t, Laptop, d)
	_, err = ParseDevice("fridge")
	assert.Error(t, err)
}
