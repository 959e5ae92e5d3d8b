package pixkit

import (
	"image"
	"io"
	"os"

	"github.com/esimov/pixkit/utils"
)

// Processor options. The zero value re-encodes the image in its source format.
type Processor struct {
	Mode      Mode
	NewWidth  int
	NewHeight int
	Filters   []Filter
	// Crop is applied first when not empty.
	Crop image.Rectangle
	// Aspect crops the largest centered area of the given ratio.
	Aspect *Aspect
	// FaceCrop centers the aspect crop on the strongest detected face.
	// A square crop is used when Aspect is nil.
	FaceCrop  *FaceDetector
	Watermark *Watermark
	Quality   int
	// MaxBytes is the input size ceiling, DefaultMaxBytes when zero.
	MaxBytes int64
	// MaxPixels is the input area ceiling, DefaultMaxPixels when zero.
	MaxPixels int64
	// TargetBytes bounds the encoded output size when positive.
	TargetBytes int64
	Format      Format
	Spinner     *utils.Spinner
}

// Apply runs the crop, resize, filter and watermark steps over img.
func (p *Processor) Apply(img image.Image) (*image.NRGBA, error) {
	var (
		dst *image.NRGBA
		err error
	)
	if !p.Crop.Empty() {
		if dst, err = CropRect(img, p.Crop); err != nil {
			return nil, err
		}
		img = dst
	}
	switch {
	case p.FaceCrop != nil:
		a := Aspect{W: 1, H: 1}
		if p.Aspect != nil {
			a = *p.Aspect
		}
		img = p.FaceCrop.CropFace(img, a)
	case p.Aspect != nil:
		img = CropAspect(img, *p.Aspect)
	}

	if p.NewWidth != 0 || p.NewHeight != 0 || p.Mode == ModeSquare {
		if img, err = Resize(img, p.Mode, p.NewWidth, p.NewHeight); err != nil {
			return nil, err
		}
	}
	if dst, err = ApplyFilters(img, p.Filters); err != nil {
		return nil, err
	}
	if p.Watermark != nil {
		if dst, err = ApplyWatermark(dst, *p.Watermark); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// Process decodes the image read from r, applies the configured steps and encodes the result into w.
// The output format is, in order of precedence, the Format option, the extension of w
// when it is a file and the source format.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	src, format, err := DecodeLimit(r, p.MaxBytes, p.MaxPixels)
	if err != nil {
		return err
	}
	img, err := p.Apply(src)
	if err != nil {
		return err
	}

	if p.Format != "" {
		format = p.Format
	} else if f, ok := w.(*os.File); ok && f != os.Stdout {
		if ff, err := FormatFromExt(f.Name()); err == nil {
			format = ff
		}
	}

	if p.TargetBytes > 0 {
		_, err = EncodeWithin(w, img, format, p.TargetBytes)
		return err
	}
	return Encode(w, img, format, p.Quality)
}
