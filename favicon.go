package pixkit

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/esimov/pixkit/colors"
	"github.com/esimov/pixkit/utils"
	"github.com/klauspost/compress/zip"
)

// FaviconSizes are the square PNG sizes of a favicon set.
var FaviconSizes = []int{16, 32, 48, 180, 192, 512}

// icoSizes are the sizes embedded in favicon.ico.
var icoSizes = []int{16, 32, 48}

// FaviconOptions customize the generated icons.
type FaviconOptions struct {
	// Background fills the transparent areas when set.
	Background string
	// Radius rounds the corners, as a fraction of the icon size in 0..0.5.
	Radius float64
	// Name is used for the web manifest.
	Name string
}

// Icon is one encoded PNG icon.
type Icon struct {
	Name string
	Size int
	PNG  []byte
}

// FaviconSet holds the icons generated from one source image.
type FaviconSet struct {
	Icons []Icon
	Name  string
}

func iconName(size int) string {
	switch size {
	case 180:
		return "apple-touch-icon.png"
	case 192, 512:
		return fmt.Sprintf("android-chrome-%dx%d.png", size, size)
	}
	return fmt.Sprintf("favicon-%dx%d.png", size, size)
}

// Favicons renders the icon set. The source is center cropped to a square first.
func Favicons(src image.Image, opts FaviconOptions) (*FaviconSet, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty source image", ErrInvalidSize)
	}
	if opts.Radius < 0 || opts.Radius > 0.5 {
		return nil, fmt.Errorf("corner radius must be within 0..0.5, got %v", opts.Radius)
	}
	edge := utils.Min(b.Dx(), b.Dy())
	square := imaging.CropCenter(src, edge, edge)

	if opts.Background != "" {
		bg, err := colors.Parse(opts.Background)
		if err != nil {
			return nil, err
		}
		square = imaging.OverlayCenter(imaging.New(edge, edge, bg.NRGBA(1)), square, 1)
	}

	set := &FaviconSet{Name: opts.Name}
	for _, size := range FaviconSizes {
		icon := imaging.Resize(square, size, size, imaging.Lanczos)
		if opts.Radius > 0 {
			icon = roundCorners(icon, float32(opts.Radius*float64(size)))
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, icon); err != nil {
			return nil, err
		}
		set.Icons = append(set.Icons, Icon{Name: iconName(size), Size: size, PNG: buf.Bytes()})
	}
	Logger().Debug("favicon set generated", "icons", len(set.Icons))
	return set, nil
}

func roundCorners(img *image.NRGBA, radius float32) *image.NRGBA {
	dst := image.NewNRGBA(img.Bounds())
	mask := roundedMask(img.Bounds().Size(), radius)
	draw.DrawMask(dst, dst.Bounds(), img, image.Point{}, mask, image.Point{}, draw.Src)
	return dst
}

// Icon returns the icon of the given size.
func (s *FaviconSet) Icon(size int) (Icon, bool) {
	for _, ic := range s.Icons {
		if ic.Size == size {
			return ic, true
		}
	}
	return Icon{}, false
}

// ICO encodes a multi size favicon.ico with PNG compressed entries.
func (s *FaviconSet) ICO() ([]byte, error) {
	var icons []Icon
	for _, size := range icoSizes {
		if ic, ok := s.Icon(size); ok {
			icons = append(icons, ic)
		}
	}
	if len(icons) == 0 {
		return nil, fmt.Errorf("no icon sizes available for favicon.ico")
	}

	type iconDir struct {
		Reserved, Type, Count uint16
	}
	type iconDirEntry struct {
		Width, Height, Colors, Reserved uint8
		Planes, BitCount                uint16
		Size, Offset                    uint32
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, iconDir{Type: 1, Count: uint16(len(icons))}); err != nil {
		return nil, err
	}
	offset := 6 + 16*len(icons)
	for _, ic := range icons {
		e := iconDirEntry{
			Width:    uint8(ic.Size % 256),
			Height:   uint8(ic.Size % 256),
			Planes:   1,
			BitCount: 32,
			Size:     uint32(len(ic.PNG)),
			Offset:   uint32(offset),
		}
		if err := binary.Write(&buf, binary.LittleEndian, e); err != nil {
			return nil, err
		}
		offset += len(ic.PNG)
	}
	for _, ic := range icons {
		buf.Write(ic.PNG)
	}
	return buf.Bytes(), nil
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// Manifest returns a site.webmanifest referencing the android icons.
func (s *FaviconSet) Manifest() ([]byte, error) {
	m := struct {
		Name    string         `json:"name"`
		Icons   []manifestIcon `json:"icons"`
		Display string         `json:"display"`
	}{Name: s.Name, Display: "standalone"}
	for _, size := range []int{192, 512} {
		if ic, ok := s.Icon(size); ok {
			m.Icons = append(m.Icons, manifestIcon{Src: "/" + ic.Name, Sizes: fmt.Sprintf("%dx%d", size, size), Type: "image/png"})
		}
	}
	return json.MarshalIndent(m, "", "  ")
}

// WriteArchive writes the PNG icons, favicon.ico and site.webmanifest as a zip archive.
func (s *FaviconSet) WriteArchive(w io.Writer) error {
	ico, err := s.ICO()
	if err != nil {
		return err
	}
	manifest, err := s.Manifest()
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	add := func(name string, data []byte) error {
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("could not add %s to the archive: %w", name, err)
		}
		_, err = f.Write(data)
		return err
	}
	for _, ic := range s.Icons {
		if err := add(ic.Name, ic.PNG); err != nil {
			return err
		}
	}
	if err := add("favicon.ico", ico); err != nil {
		return err
	}
	if err := add("site.webmanifest", manifest); err != nil {
		return err
	}
	return zw.Close()
}
