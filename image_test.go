package pixkit

import (
	"bytes"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImage_DecodeShouldValidateUploads(t *testing.T) {
	pngData := encodePNG(t, gradient(20, 10))

	img, format, err := Decode(bytes.NewReader(pngData), 0)
	assert.NoError(t, err)
	assert.Equal(t, PNG, format)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())

	testCases := []struct {
		name string
		data []byte
		max  int64
		want error
	}{
		{"webp is rejected", []byte("RIFF\x24\x00\x00\x00WEBPVP8 \x18\x00\x00\x00"), 0, ErrUnsupportedType},
		{"text is rejected", []byte("hello world"), 0, ErrUnsupportedType},
		{"too large", pngData, 10, ErrTooLarge},
		{"corrupt png", append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{1}, 64)...), 0, ErrDecode},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img, _, err := Decode(bytes.NewReader(tc.data), tc.max)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, img)
		})
	}
}

func TestImage_DecodeShouldRejectHugeDimensions(t *testing.T) {
	data := pngHeader(t, 200000, 200000)
	assert.Less(t, len(data), 100)

	img, _, err := Decode(bytes.NewReader(data), 0)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Nil(t, img)

	small := encodePNG(t, gradient(64, 64))
	img, _, err = DecodeLimit(bytes.NewReader(small), 0, 1000)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Nil(t, img)

	img, _, err = DecodeLimit(bytes.NewReader(small), 0, 64*64)
	assert.NoError(t, err)
	assert.Equal(t, image.Pt(64, 64), img.Bounds().Size())
}

func TestImage_CheckPixels(t *testing.T) {
	assert.NoError(t, CheckPixels(5000, 10000))
	assert.ErrorIs(t, CheckPixels(5001, 10000), ErrInvalidSize)
	assert.ErrorIs(t, CheckPixels(200000, 200000), ErrInvalidSize)
}

func TestImage_EncodeRoundTrip(t *testing.T) {
	src := gradient(16, 8)
	for _, f := range []Format{JPEG, PNG, GIF, BMP, TIFF} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			assert.NoError(t, Encode(&buf, src, f, 80))

			img, format, err := Decode(&buf, 0)
			assert.NoError(t, err)
			assert.Equal(t, f, format)
			assert.Equal(t, src.Bounds(), img.Bounds())
		})
	}

	assert.ErrorIs(t, Encode(&bytes.Buffer{}, src, "webp", 0), ErrUnsupportedType)
}

func TestImage_FormatFromExt(t *testing.T) {
	testCases := map[string]Format{
		"photo.JPG": JPEG, "a/b.jpeg": JPEG, "x.png": PNG, "x.gif": GIF,
		"x.bmp": BMP, "scan.tif": TIFF, "scan.tiff": TIFF, "png": PNG,
	}
	for name, want := range testCases {
		got, err := FormatFromExt(name)
		assert.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := FormatFromExt("x.webp")
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Equal(t, ".jpg", JPEG.Ext())
	assert.Equal(t, ".tiff", TIFF.Ext())
}

func noise(w, h int) *image.NRGBA {
	rnd := rand.New(rand.NewSource(1))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(rnd.Intn(256)), uint8(rnd.Intn(256)), uint8(rnd.Intn(256)), 255})
		}
	}
	return img
}

func TestImage_EncodeWithin(t *testing.T) {
	img := noise(128, 128)

	var full bytes.Buffer
	assert.NoError(t, Encode(&full, img, JPEG, 92))

	var buf bytes.Buffer
	target := int64(full.Len() / 2)
	n, err := EncodeWithin(&buf, img, JPEG, target)
	assert.NoError(t, err)
	assert.Equal(t, buf.Len(), n)
	assert.LessOrEqual(t, int64(n), target)

	buf.Reset()
	_, err = EncodeWithin(&buf, img, JPEG, 100)
	assert.ErrorIs(t, err, ErrTargetSize)
	assert.Zero(t, buf.Len())

	buf.Reset()
	_, err = EncodeWithin(&buf, img, PNG, 100)
	assert.ErrorIs(t, err, ErrTargetSize)

	n, err = EncodeWithin(&buf, img, PNG, 0)
	assert.NoError(t, err)
	assert.Positive(t, n)
}
