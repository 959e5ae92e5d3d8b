package pixkit

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/pixkit/colors"
	"github.com/esimov/pixkit/imop"
	"golang.org/x/image/vector"
)

// Device is a mockup frame.
type Device string

const (
	Phone   Device = "phone"
	Tablet  Device = "tablet"
	Laptop  Device = "laptop"
	Browser Device = "browser"
)

type deviceSpec struct {
	size         image.Point
	body         image.Rectangle
	screen       image.Rectangle
	bodyRadius   float32
	screenRadius float32
	frame        string

	// base extends the body outline, overlay is painted over the screen.
	base, overlay func(z *vector.Rasterizer, o image.Point)
}

var devices = map[Device]deviceSpec{
	Phone: {
		size:         image.Pt(440, 880),
		body:         image.Rect(0, 0, 440, 880),
		screen:       image.Rect(22, 22, 418, 858),
		bodyRadius:   64,
		screenRadius: 44,
		frame:        "#1f2937",
		overlay: func(z *vector.Rasterizer, o image.Point) {
			roundedRect(z, rect{float32(o.X + 170), float32(o.Y + 34), float32(o.X + 270), float32(o.Y + 58)}, 12)
		},
	},
	Tablet: {
		size:         image.Pt(820, 1080),
		body:         image.Rect(0, 0, 820, 1080),
		screen:       image.Rect(40, 40, 780, 1040),
		bodyRadius:   48,
		screenRadius: 12,
		frame:        "#1f2937",
	},
	Laptop: {
		size:         image.Pt(1200, 720),
		body:         image.Rect(80, 0, 1120, 680),
		screen:       image.Rect(108, 28, 1092, 644),
		bodyRadius:   24,
		screenRadius: 4,
		frame:        "#374151",
		base: func(z *vector.Rasterizer, o image.Point) {
			x, y := float32(o.X), float32(o.Y)
			z.MoveTo(x, y+680)
			z.LineTo(x+1200, y+680)
			z.LineTo(x+1160, y+720)
			z.LineTo(x+40, y+720)
			z.ClosePath()
		},
	},
	Browser: {
		size:       image.Pt(1200, 800),
		body:       image.Rect(0, 0, 1200, 800),
		screen:     image.Rect(0, 44, 1200, 800),
		bodyRadius: 12,
		frame:      "#e5e7eb",
	},
}

// browserButtons are the close, minimize and maximize buttons of the browser title bar.
var browserButtons = []string{"#ef4444", "#f59e0b", "#22c55e"}

// Devices lists the mockup frames.
var Devices = []Device{Phone, Tablet, Laptop, Browser}

// ParseDevice returns the device by name.
func ParseDevice(s string) (Device, error) {
	d := Device(strings.ToLower(s))
	if _, ok := devices[d]; !ok {
		return "", fmt.Errorf("unknown mockup device %q", s)
	}
	return d, nil
}

// MockupOptions customize the frame.
type MockupOptions struct {
	Device     Device
	Background string // canvas color, transparent when empty
	Frame      string // body color, device default when empty
	Padding    int
	Shadow     bool
}

// Mockup places the screenshot inside a device frame. The screenshot covers the
// screen area and is cropped from its top edge.
func Mockup(shot image.Image, opts MockupOptions) (*image.NRGBA, error) {
	if opts.Device == "" {
		opts.Device = Phone
	}
	spec, ok := devices[opts.Device]
	if !ok {
		return nil, fmt.Errorf("unknown mockup device %q", opts.Device)
	}
	if opts.Padding <= 0 {
		opts.Padding = 48
	}
	if opts.Frame == "" {
		opts.Frame = spec.frame
	}
	frame, err := colors.Parse(opts.Frame)
	if err != nil {
		return nil, err
	}

	pad := opts.Padding
	if err := CheckPixels(spec.size.X+2*pad, spec.size.Y+2*pad); err != nil {
		return nil, err
	}
	o := image.Pt(pad, pad)
	canvas := image.NewNRGBA(image.Rect(0, 0, spec.size.X+2*pad, spec.size.Y+2*pad))
	if opts.Background != "" {
		bg, err := colors.Parse(opts.Background)
		if err != nil {
			return nil, err
		}
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg.NRGBA(1)), image.Point{}, draw.Src)
	}

	body := func(z *vector.Rasterizer) {
		roundedRect(z, rectOf(spec.body.Add(o)), spec.bodyRadius)
		if spec.base != nil {
			spec.base(z, o)
		}
	}

	if opts.Shadow {
		layer := image.NewNRGBA(canvas.Bounds())
		fill(layer, color.Black, body)
		blurred := imaging.Blur(layer, float64(pad)/4)
		imop.InitOp().DrawAt(canvas, blurred, image.Pt(0, pad/4), 0.45, nil)
	}
	fill(canvas, frame.NRGBA(1), body)

	screen := spec.screen.Add(o)
	content := imaging.Fill(shot, screen.Dx(), screen.Dy(), imaging.Top, imaging.Lanczos)
	if spec.screenRadius > 0 {
		content = roundCorners(content, spec.screenRadius)
	}
	draw.Draw(canvas, screen, content, image.Point{}, draw.Over)

	if spec.overlay != nil {
		fill(canvas, frame.NRGBA(1), func(z *vector.Rasterizer) { spec.overlay(z, o) })
	}
	if opts.Device == Browser {
		for i, c := range browserButtons {
			rgb, _ := colors.Parse(c)
			x := float32(o.X + 24 + i*22)
			fill(canvas, rgb.NRGBA(1), func(z *vector.Rasterizer) { circle(z, x, float32(o.Y+22), 6) })
		}
	}
	Logger().Debug("mockup rendered", "device", opts.Device, "width", canvas.Bounds().Dx(), "height", canvas.Bounds().Dy())
	return canvas, nil
}
