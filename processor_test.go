package pixkit

import (
	"bytes"
	"image"
	"image/color"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessor_ResizeKeepsSourceFormat(t *testing.T) {
	p := &Processor{Mode: ModeFit, NewWidth: 100}

	var out bytes.Buffer
	err := p.Process(bytes.NewReader(encodePNG(t, gradient(200, 100))), &out)
	assert.NoError(t, err)
	assert.Equal(t, "image/png", http.DetectContentType(out.Bytes()))

	img, _, err := Decode(&out, 0)
	assert.NoError(t, err)
	assert.Equal(t, image.Pt(100, 50), img.Bounds().Size())
}

func TestProcessor_ForcedFormat(t *testing.T) {
	p := &Processor{Format: JPEG, Quality: 70}

	var out bytes.Buffer
	assert.NoError(t, p.Process(bytes.NewReader(encodePNG(t, gradient(20, 20))), &out))
	assert.Equal(t, "image/jpeg", http.DetectContentType(out.Bytes()))
}

func TestProcessor_Pipeline(t *testing.T) {
	square := Aspect{1, 1}
	testCases := []struct {
		name string
		p    Processor
		want image.Point
	}{
		{"crop then resize", Processor{Crop: image.Rect(0, 0, 100, 100), NewWidth: 50}, image.Pt(50, 50)},
		{"aspect crop", Processor{Aspect: &square}, image.Pt(100, 100)},
		{"square mode", Processor{Mode: ModeSquare, NewWidth: 30}, image.Pt(30, 30)},
		{"rotate filter", Processor{Filters: []Filter{{Name: "rotate", Arg: 90}}}, image.Pt(100, 200)},
		{"watermark", Processor{Watermark: &Watermark{Text: "hi"}}, image.Pt(200, 100)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img, err := tc.p.Apply(gradient(200, 100))
			assert.NoError(t, err)
			assert.Equal(t, tc.want, img.Bounds().Size())
		})
	}
}

func TestProcessor_Errors(t *testing.T) {
	data := encodePNG(t, noise(64, 64))

	p := &Processor{MaxBytes: 16}
	assert.ErrorIs(t, p.Process(bytes.NewReader(data), &bytes.Buffer{}), ErrTooLarge)

	p = &Processor{MaxPixels: 32 * 32}
	assert.ErrorIs(t, p.Process(bytes.NewReader(data), &bytes.Buffer{}), ErrTooLarge)

	p = &Processor{Mode: ModeExact, NewWidth: 100000, NewHeight: 100000}
	assert.ErrorIs(t, p.Process(bytes.NewReader(data), &bytes.Buffer{}), ErrInvalidSize)

	p = &Processor{TargetBytes: 50}
	assert.ErrorIs(t, p.Process(bytes.NewReader(data), &bytes.Buffer{}), ErrTargetSize)

	p = &Processor{Crop: image.Rect(500, 500, 600, 600)}
	assert.ErrorIs(t, p.Process(bytes.NewReader(data), &bytes.Buffer{}), ErrEmptyCrop)

	p = &Processor{Watermark: &Watermark{Text: "x", Color: "nope"}}
	_, err := p.Apply(solid(4, 4, color.NRGBA{A: 255}))
	assert.Error(t, err)
}
