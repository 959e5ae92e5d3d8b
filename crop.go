package pixkit

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"
	"github.com/esimov/pixkit/utils"
)

// ErrEmptyCrop is returned when a crop area does not overlap the image.
var ErrEmptyCrop = errors.New("crop area is empty")

// CropRect crops img to r clamped to the image bounds.
func CropRect(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	area := r.Canon().Intersect(img.Bounds())
	if area.Empty() {
		return nil, fmt.Errorf("%w: %v outside %v", ErrEmptyCrop, r, img.Bounds())
	}
	return imaging.Crop(img, area), nil
}

// ParseRect parses a crop rectangle written as "x,y,width,height".
func ParseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("crop rectangle must be x,y,width,height: %q", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid crop rectangle %q: %w", s, err)
		}
		v[i] = n
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

// Aspect is a width:height ratio.
type Aspect struct {
	W, H float64
}

// ParseAspect parses ratios written as "16:9", "4/3" or "1.5".
func ParseAspect(s string) (Aspect, error) {
	sep := strings.IndexAny(s, ":/x")
	var a Aspect
	var err error
	if sep < 0 {
		a.H = 1
		a.W, err = strconv.ParseFloat(s, 64)
	} else {
		a.W, err = strconv.ParseFloat(s[:sep], 64)
		if err == nil {
			a.H, err = strconv.ParseFloat(s[sep+1:], 64)
		}
	}
	if err != nil || a.W <= 0 || a.H <= 0 {
		return Aspect{}, fmt.Errorf("invalid aspect ratio %q", s)
	}
	return a, nil
}

// window returns the largest w x h area of the given aspect inside dx x dy.
func (a Aspect) window(dx, dy int) (int, int) {
	ratio := a.W / a.H
	w, h := dx, int(math.Round(float64(dx)/ratio))
	if h > dy {
		w, h = int(math.Round(float64(dy)*ratio)), dy
	}
	return utils.Max(1, w), utils.Max(1, h)
}

// CropAspect crops the largest centered area with the given aspect ratio.
func CropAspect(img image.Image, a Aspect) *image.NRGBA {
	w, h := a.window(img.Bounds().Dx(), img.Bounds().Dy())
	return imaging.CropCenter(img, w, h)
}

// cropAround crops a w x h window centered on c, shifted to stay inside b.
func cropAround(img image.Image, c image.Point, w, h int) *image.NRGBA {
	b := img.Bounds()
	x := utils.Clamp(c.X-w/2, b.Min.X, b.Max.X-w)
	y := utils.Clamp(c.Y-h/2, b.Min.Y, b.Max.Y-h)
	return imaging.Crop(img, image.Rect(x, y, x+w, y+h))
}

// FaceDetector finds faces with a pigo cascade.
type FaceDetector struct {
	classifier *pigo.Pigo
	MinSize    int
	Angle      float64
	IoU        float64
	Threshold  float32
}

// NewFaceDetector unpacks a pigo face cascade.
func NewFaceDetector(cascade []byte) (*FaceDetector, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %w", err)
	}
	return &FaceDetector{
		classifier: classifier,
		MinSize:    20,
		IoU:        0.2,
		Threshold:  5,
	}, nil
}

// LoadFaceDetector reads the cascade from a file.
func LoadFaceDetector(path string) (*FaceDetector, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the cascade file: %w", err)
	}
	return NewFaceDetector(cascade)
}

// Detect returns the bounding boxes of the detected faces, strongest first.
func (fd *FaceDetector) Detect(img image.Image) []image.Rectangle {
	src := imaging.Clone(img)
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()

	cParams := pigo.CascadeParams{
		MinSize:     fd.MinSize,
		MaxSize:     utils.Max(dx, dy),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,

		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(src),
			Rows:   dy,
			Cols:   dx,
			Dim:    dx,
		},
	}
	dets := fd.classifier.RunCascade(cParams, fd.Angle)
	dets = fd.classifier.ClusterDetections(dets, fd.IoU)

	var best []pigo.Detection
	for _, d := range dets {
		if d.Q >= fd.Threshold {
			best = append(best, d)
		}
	}
	sort.Slice(best, func(i, j int) bool { return best[i].Q > best[j].Q })

	faces := make([]image.Rectangle, 0, len(best))
	for _, d := range best {
		half := d.Scale / 2
		faces = append(faces, image.Rect(d.Col-half, d.Row-half, d.Col+half, d.Row+half))
	}
	return faces
}

// CropFace crops the largest area with aspect a centered on the strongest face.
// Without a detected face it falls back to a center crop.
func (fd *FaceDetector) CropFace(img image.Image, a Aspect) *image.NRGBA {
	w, h := a.window(img.Bounds().Dx(), img.Bounds().Dy())
	faces := fd.Detect(img)
	if len(faces) == 0 {
		Logger().Warn("no face detected, using a center crop")
		return imaging.CropCenter(img, w, h)
	}
	f := faces[0]
	c := image.Pt((f.Min.X+f.Max.X)/2, (f.Min.Y+f.Max.Y)/2).Add(img.Bounds().Min)
	Logger().Debug("face crop", "face", f, "width", w, "height", h)
	return cropAround(img, c, w, h)
}
