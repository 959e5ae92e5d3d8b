package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/esimov/pixkit"
	"github.com/esimov/pixkit/utils"
)

// ioFlags are shared by every image command.
type ioFlags struct {
	source, destination string
	workers             int
	format              string
	quality             int
	target              int64
	maxBytes            int64
	maxPixels           int64
	cascade             string
}

func (f *ioFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.source, "in", pipeName, "Source image, directory or URL")
	fs.StringVar(&f.destination, "out", pipeName, "Destination image, directory or .zip archive")
	fs.IntVar(&f.workers, "conc", runtime.NumCPU(), "Number of files to process concurrently")
	fs.StringVar(&f.format, "format", "", "Output format (jpg, png, gif, bmp, tiff)")
	fs.IntVar(&f.quality, "quality", 0, "JPEG quality (1-100)")
	fs.Int64Var(&f.target, "target", 0, "Maximum output size in bytes")
	fs.Int64Var(&f.maxBytes, "max", pixkit.DefaultMaxBytes, "Maximum input size in bytes")
	fs.Int64Var(&f.maxPixels, "max-pixels", pixkit.DefaultMaxPixels, "Maximum input area in pixels")
}

// processor builds the part of a Processor configured through the shared flags.
func (f *ioFlags) processor() (*pixkit.Processor, error) {
	p := &pixkit.Processor{
		Quality:     f.quality,
		MaxBytes:    f.maxBytes,
		MaxPixels:   f.maxPixels,
		TargetBytes: f.target,
	}
	if f.format != "" {
		format, err := pixkit.FormatFromExt(f.format)
		if err != nil {
			return nil, err
		}
		p.Format = format
	}
	return p, nil
}

// execute runs the processor over the source with a spinner on the terminal.
func (f *ioFlags) execute(ctx context.Context, p *pixkit.Processor, msg string) error {
	if f.destination != pipeName {
		p.Spinner = utils.NewSpinner(
			fmt.Sprintf("%s %s",
				utils.DecorateText("⚡ PIXKIT", utils.StatusMessage),
				utils.DecorateText(msg, utils.DefaultMessage),
			), time.Millisecond*200, true)
	}
	return p.Execute(ctx, &pixkit.Ops{
		Src:      f.source,
		Dst:      f.destination,
		PipeName: pipeName,
		Workers:  f.workers,
	})
}

func (f *ioFlags) faceDetector() (*pixkit.FaceDetector, error) {
	if f.cascade == "" {
		return nil, errors.New("face detection needs a cascade file, see -cascade")
	}
	return pixkit.LoadFaceDetector(f.cascade)
}

func runResize(ctx context.Context, args []string) error {
	fs, verbose := newFlagSet("resize")
	var iof ioFlags
	iof.register(fs)
	var (
		width  = fs.Int("width", 0, "New width (percentage in percentage mode)")
		height = fs.Int("height", 0, "New height")
		mode   = fs.String("mode", string(pixkit.ModeFit), "Resize mode: fit, fill, exact, percentage, square")
	)
	parse(fs, verbose, args)

	m, err := pixkit.ParseMode(*mode)
	if err != nil {
		return err
	}
	p, err := iof.processor()
	if err != nil {
		return err
	}
	p.Mode, p.NewWidth, p.NewHeight = m, *width, *height
	return iof.execute(ctx, p, "Resizing image...")
}

func runCrop(ctx context.Context, args []string) error {
	fs, verbose := newFlagSet("crop")
	var iof ioFlags
	iof.register(fs)
	var (
		rect   = fs.String("rect", "", "Crop rectangle as x,y,width,height")
		aspect = fs.String("aspect", "", "Crop to an aspect ratio, e.g. 16:9")
		face   = fs.Bool("face", false, "Center the crop on the detected face")
	)
	fs.StringVar(&iof.cascade, "cascade", "", "Pigo face cascade file")
	parse(fs, verbose, args)

	p, err := iof.processor()
	if err != nil {
		return err
	}
	if *rect != "" {
		if p.Crop, err = pixkit.ParseRect(*rect); err != nil {
			return err
		}
	}
	if *aspect != "" {
		a, err := pixkit.ParseAspect(*aspect)
		if err != nil {
			return err
		}
		p.Aspect = &a
	}
	if *face {
		if p.FaceCrop, err = iof.faceDetector(); err != nil {
			return err
		}
	}
	if p.Crop.Empty() && p.Aspect == nil && p.FaceCrop == nil {
		return errors.New("crop needs -rect, -aspect or -face")
	}
	return iof.execute(ctx, p, "Cropping image...")
}

func runFilter(ctx context.Context, args []string) error {
	fs, verbose := newFlagSet("filter")
	var iof ioFlags
	iof.register(fs)
	chain := fs.String("filters", "", "Filter chain, e.g. grayscale,contrast:20,blur:1.5 ("+strings.Join(pixkit.FilterNames(), ", ")+")")
	parse(fs, verbose, args)

	filters, err := pixkit.ParseFilters(*chain)
	if err != nil {
		return err
	}
	if len(filters) == 0 {
		return errors.New("no filter given, see -filters")
	}
	p, err := iof.processor()
	if err != nil {
		return err
	}
	p.Filters = filters
	return iof.execute(ctx, p, "Applying filters...")
}

func runWatermark(ctx context.Context, args []string) error {
	fs, verbose := newFlagSet("watermark")
	var iof ioFlags
	iof.register(fs)
	var (
		text     = fs.String("text", "", "Watermark text")
		mark     = fs.String("mark", "", "Watermark image file")
		position = fs.String("position", string(pixkit.BottomRight), "Watermark position")
		opacity  = fs.Float64("opacity", 0.5, "Watermark opacity (0-1)")
		color    = fs.String("color", "#ffffff", "Text color")
		scale    = fs.Float64("scale", 0, "Text glyph scale, or mark width relative to the image")
		margin   = fs.Int("margin", 16, "Distance from the image edges")
		tile     = fs.Bool("tile", false, "Repeat the watermark over the whole image")
		blend    = fs.String("blend", "", "Blend mode (multiply, screen, overlay...)")
	)
	parse(fs, verbose, args)

	wm := &pixkit.Watermark{
		Text:     *text,
		Scale:    *scale,
		Color:    *color,
		Opacity:  *opacity,
		Position: pixkit.Position(*position),
		Margin:   *margin,
		Tile:     *tile,
		Blend:    *blend,
	}
	if *mark != "" {
		img, err := decodeFile(*mark, iof.maxBytes)
		if err != nil {
			return fmt.Errorf("watermark image: %w", err)
		}
		wm.Image = img
	}
	p, err := iof.processor()
	if err != nil {
		return err
	}
	p.Watermark = wm
	return iof.execute(ctx, p, "Adding watermark...")
}

func runFavicon(ctx context.Context, args []string) error {
	fs, verbose := newFlagSet("favicon")
	var (
		source      = fs.String("in", pipeName, "Source image or URL")
		destination = fs.String("out", "favicons.zip", "Destination .zip archive or directory")
		background  = fs.String("bg", "", "Background color")
		radius      = fs.Float64("radius", 0, "Corner radius relative to the icon size (0-0.5)")
		name        = fs.String("name", "", "Application name used in site.webmanifest")
		maxBytes    = fs.Int64("max", pixkit.DefaultMaxBytes, "Maximum input size in bytes")
	)
	parse(fs, verbose, args)

	src, err := openImage(ctx, *source, *maxBytes)
	if err != nil {
		return err
	}
	set, err := pixkit.Favicons(src, pixkit.FaviconOptions{
		Background: *background,
		Radius:     *radius,
		Name:       *name,
	})
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(*destination), ".zip") || *destination == pipeName {
		return writeOutput(*destination, set.WriteArchive)
	}
	if err := os.MkdirAll(*destination, 0o755); err != nil {
		return err
	}
	for _, icon := range set.Icons {
		if err := os.WriteFile(filepath.Join(*destination, icon.Name), icon.PNG, 0o644); err != nil {
			return err
		}
	}
	ico, err := set.ICO()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(*destination, "favicon.ico"), ico, 0o644); err != nil {
		return err
	}
	manifest, err := set.Manifest()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(*destination, "site.webmanifest"), manifest, 0o644)
}

func runMockup(ctx context.Context, args []string) error {
	fs, verbose := newFlagSet("mockup")
	var (
		source      = fs.String("in", pipeName, "Screenshot file or URL")
		destination = fs.String("out", pipeName, "Destination image")
		device      = fs.String("device", string(pixkit.Phone), "Device frame: phone, tablet, laptop, browser")
		background  = fs.String("bg", "", "Canvas color, transparent when empty")
		frame       = fs.String("frame", "", "Device body color")
		padding     = fs.Int("padding", 48, "Space around the device")
		shadow      = fs.Bool("shadow", true, "Draw a drop shadow")
		maxBytes    = fs.Int64("max", pixkit.DefaultMaxBytes, "Maximum input size in bytes")
	)
	parse(fs, verbose, args)

	d, err := pixkit.ParseDevice(*device)
	if err != nil {
		return err
	}
	shot, err := openImage(ctx, *source, *maxBytes)
	if err != nil {
		return err
	}
	out, err := pixkit.Mockup(shot, pixkit.MockupOptions{
		Device:     d,
		Background: *background,
		Frame:      *frame,
		Padding:    *padding,
		Shadow:     *shadow,
	})
	if err != nil {
		return err
	}
	format := pixkit.PNG
	if *destination != pipeName {
		if format, err = pixkit.FormatFromExt(*destination); err != nil {
			return err
		}
	}
	return writeOutput(*destination, func(w io.Writer) error {
		return pixkit.Encode(w, out, format, 0)
	})
}

// openImage decodes a single image from a file, a URL or stdin.
func openImage(ctx context.Context, src string, maxBytes int64) (image.Image, error) {
	if src == pipeName {
		img, _, err := pixkit.Decode(os.Stdin, maxBytes)
		return img, err
	}
	if utils.IsValidUrl(src) {
		f, err := utils.DownloadImage(ctx, src, maxBytes)
		if err != nil {
			return nil, err
		}
		defer os.Remove(f.Name())
		defer f.Close()
		img, _, err := pixkit.Decode(f, maxBytes)
		return img, err
	}
	return decodeFile(src, maxBytes)
}

func decodeFile(path string, maxBytes int64) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := pixkit.Decode(f, maxBytes)
	return img, err
}

// writeOutput calls fn with stdout or a newly created file. The file is removed when fn fails.
func writeOutput(dst string, fn func(io.Writer) error) error {
	if dst == pipeName {
		return fn(os.Stdout)
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(dst)
		return err
	}
	return f.Close()
}
