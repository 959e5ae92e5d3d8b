package pixkit

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/pixkit/utils"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultMaxBytes is the upload ceiling used when no limit is configured.
const DefaultMaxBytes = 10 << 20

// DefaultMaxPixels bounds the area of decoded and generated images (50 megapixels).
const DefaultMaxPixels = 50_000_000

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds the size limit")
	ErrDecode          = errors.New("could not decode the image")
	ErrTargetSize      = errors.New("could not reach the target file size")
)

// Format is an output image encoding.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// mimeTypes is the upload allowlist.
var mimeTypes = map[string]Format{
	"image/jpeg": JPEG,
	"image/png":  PNG,
	"image/gif":  GIF,
	"image/bmp":  BMP,
	"image/tiff": TIFF,
}

// Extensions lists the file extensions accepted in batch mode.
var Extensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff"}

// FormatFromExt maps a file name or bare extension to an output format.
func FormatFromExt(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = "." + strings.ToLower(strings.TrimPrefix(name, "."))
	}
	switch ext {
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".png":
		return PNG, nil
	case ".gif":
		return GIF, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

// Ext returns the canonical file extension of the format.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// sniff returns the MIME type of the header. The net/http sniffer has no
// TIFF signature, so the two byte orders are checked here.
func sniff(data []byte) (string, error) {
	if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
		return "image/tiff", nil
	}
	return utils.DetectContentType(bytes.NewReader(data))
}

// CheckPixels returns ErrInvalidSize when a w x h image would exceed DefaultMaxPixels.
func CheckPixels(w, h int) error {
	if float64(w)*float64(h) > DefaultMaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidSize, w, h, DefaultMaxPixels)
	}
	return nil
}

// Decode is DecodeLimit with the default pixel ceiling.
func Decode(r io.Reader, maxBytes int64) (*image.NRGBA, Format, error) {
	return DecodeLimit(r, maxBytes, 0)
}

// DecodeLimit reads at most maxBytes from r, checks the content type against the
// allowlist and decodes the image. The header dimensions are checked against
// maxPixels before any pixel buffer is allocated. Limits <= 0 select
// DefaultMaxBytes and DefaultMaxPixels. On error no image is returned.
func DecodeLimit(r io.Reader, maxBytes, maxPixels int64) (*image.NRGBA, Format, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("could not read the image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("%w: limit is %s", ErrTooLarge, utils.FormatBytes(maxBytes))
	}

	ctype, err := sniff(data)
	if err != nil {
		return nil, "", err
	}
	format, ok := mimeTypes[ctype]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedType, ctype)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	img := imaging.Clone(src)
	Logger().Debug("decoded image", "format", format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	return img, format, nil
}

// Encode writes img in the given format. quality only affects JPEG output
// and falls back to 90 when out of the 1..100 range.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	return encode(w, img, format, quality, png.DefaultCompression)
}

func encode(w io.Writer, img image.Image, format Format, quality int, level png.CompressionLevel) error {
	switch format {
	case JPEG, "":
		if quality < 1 || quality > 100 {
			quality = 90
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case PNG:
		enc := png.Encoder{CompressionLevel: level}
		return enc.Encode(w, img)
	case GIF:
		return gif.Encode(w, img, nil)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedType, format)
}

// EncodeWithin encodes img so that the output does not exceed maxBytes and
// returns the written size. JPEG quality is lowered from 92 to 10 in steps of 8,
// PNG output moves to the best compression level. Other formats get a single attempt.
// When no attempt fits, nothing is written and the returned error wraps
// ErrTargetSize with the smallest size achieved.
func EncodeWithin(w io.Writer, img image.Image, format Format, maxBytes int64) (int, error) {
	type attempt struct {
		quality int
		level   png.CompressionLevel
	}
	var attempts []attempt
	switch format {
	case JPEG, "":
		for q := 92; q > 10; q -= 8 {
			attempts = append(attempts, attempt{quality: q})
		}
		attempts = append(attempts, attempt{quality: 10})
	case PNG:
		attempts = []attempt{{level: png.DefaultCompression}, {level: png.BestCompression}}
	default:
		attempts = []attempt{{}}
	}

	var buf bytes.Buffer
	smallest := -1
	for _, a := range attempts {
		buf.Reset()
		if err := encode(&buf, img, format, a.quality, a.level); err != nil {
			return 0, err
		}
		if smallest < 0 || buf.Len() < smallest {
			smallest = buf.Len()
		}
		if maxBytes <= 0 || int64(buf.Len()) <= maxBytes {
			Logger().Debug("encoded within target", "format", format, "quality", a.quality, "bytes", buf.Len())
			return w.Write(buf.Bytes())
		}
	}
	Logger().Warn("target size missed", "format", format, "target", maxBytes, "smallest", smallest)
	return 0, fmt.Errorf("%w: smallest encoding is %s, target %s",
		ErrTargetSize, utils.FormatBytes(int64(smallest)), utils.FormatBytes(maxBytes))
}
