package server

import (
	"bytes"
	"image"
	"strconv"

	"github.com/esimov/pixkit"
	"github.com/gofiber/fiber/v3"
)

// upload decodes the multipart "file" field.
func (s *Server) upload(c fiber.Ctx) (*image.NRGBA, pixkit.Format, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", badRequest("file required in multipart/form-data")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return pixkit.DecodeLimit(f, int64(s.cfg.MaxUpload), int64(s.cfg.MaxPixels))
}

func formInt(c fiber.Ctx, key string) (int, error) {
	v := c.FormValue(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("%s must be an integer", key)
	}
	return n, nil
}

func formFloat(c fiber.Ctx, key string) (float64, error) {
	v := c.FormValue(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, badRequest("%s must be a number", key)
	}
	return n, nil
}

// invalidInput keeps the status of known library errors and reports anything
// else as a bad request.
func invalidInput(err error) error {
	if statusOf(err) != fiber.StatusInternalServerError {
		return err
	}
	return badRequest("%v", err)
}

// sendImage encodes img in the requested output format, the source format by default.
func sendImage(c fiber.Ctx, img image.Image, src pixkit.Format) error {
	format := src
	if v := c.FormValue("format"); v != "" {
		f, err := pixkit.FormatFromExt(v)
		if err != nil {
			return err
		}
		format = f
	}
	quality, err := formInt(c, "quality")
	if err != nil {
		return err
	}
	target, err := formInt(c, "target")
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if target > 0 {
		_, err = pixkit.EncodeWithin(&buf, img, format, int64(target))
	} else {
		err = pixkit.Encode(&buf, img, format, quality)
	}
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/"+string(format))
	return c.Send(buf.Bytes())
}

func (s *Server) handleResize(c fiber.Ctx) error {
	src, format, err := s.upload(c)
	if err != nil {
		return err
	}
	mode, err := pixkit.ParseMode(c.FormValue("mode"))
	if err != nil {
		return badRequest("%v", err)
	}
	p := &pixkit.Processor{Mode: mode}
	if p.NewWidth, err = formInt(c, "width"); err != nil {
		return err
	}
	if p.NewHeight, err = formInt(c, "height"); err != nil {
		return err
	}
	if v := c.FormValue("crop"); v != "" {
		if p.Crop, err = pixkit.ParseRect(v); err != nil {
			return badRequest("%v", err)
		}
	}
	if v := c.FormValue("aspect"); v != "" {
		a, err := pixkit.ParseAspect(v)
		if err != nil {
			return badRequest("%v", err)
		}
		p.Aspect = &a
	}
	if c.FormValue("face") == "true" {
		if s.faces == nil {
			return fiber.NewError(fiber.StatusNotImplemented, "face detection is not configured")
		}
		p.FaceCrop = s.faces
	}

	img, err := p.Apply(src)
	if err != nil {
		return err
	}
	return sendImage(c, img, format)
}

func (s *Server) handleFilter(c fiber.Ctx) error {
	src, format, err := s.upload(c)
	if err != nil {
		return err
	}
	chain, err := pixkit.ParseFilters(c.FormValue("filters"))
	if err != nil {
		return badRequest("%v", err)
	}
	img, err := pixkit.ApplyFilters(src, chain)
	if err != nil {
		return err
	}
	return sendImage(c, img, format)
}

func (s *Server) handleWatermark(c fiber.Ctx) error {
	src, format, err := s.upload(c)
	if err != nil {
		return err
	}
	wm := pixkit.Watermark{
		Text:     c.FormValue("text"),
		Color:    c.FormValue("color"),
		Position: pixkit.Position(c.FormValue("position")),
		Blend:    c.FormValue("blend"),
		Tile:     c.FormValue("tile") == "true",
	}
	if wm.Scale, err = formFloat(c, "scale"); err != nil {
		return err
	}
	if wm.Opacity, err = formFloat(c, "opacity"); err != nil {
		return err
	}
	if wm.Margin, err = formInt(c, "margin"); err != nil {
		return err
	}
	if fh, ferr := c.FormFile("mark"); ferr == nil {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		mark, _, err := pixkit.DecodeLimit(f, int64(s.cfg.MaxUpload), int64(s.cfg.MaxPixels))
		if err != nil {
			return err
		}
		wm.Image = mark
	}

	img, err := pixkit.ApplyWatermark(src, wm)
	if err != nil {
		return invalidInput(err)
	}
	return sendImage(c, img, format)
}

func (s *Server) handleFavicon(c fiber.Ctx) error {
	src, _, err := s.upload(c)
	if err != nil {
		return err
	}
	opts := pixkit.FaviconOptions{
		Background: c.FormValue("background"),
		Name:       c.FormValue("name"),
	}
	if opts.Radius, err = formFloat(c, "radius"); err != nil {
		return err
	}
	set, err := pixkit.Favicons(src, opts)
	if err != nil {
		return invalidInput(err)
	}

	var buf bytes.Buffer
	if err := set.WriteArchive(&buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="favicons.zip"`)
	return c.Send(buf.Bytes())
}

func (s *Server) handleMockup(c fiber.Ctx) error {
	src, _, err := s.upload(c)
	if err != nil {
		return err
	}
	opts := pixkit.MockupOptions{
		Background: c.FormValue("background"),
		Frame:      c.FormValue("frame"),
		Shadow:     c.FormValue("shadow") != "false",
	}
	if v := c.FormValue("device"); v != "" {
		if opts.Device, err = pixkit.ParseDevice(v); err != nil {
			return badRequest("%v", err)
		}
	}
	if opts.Padding, err = formInt(c, "padding"); err != nil {
		return err
	}
	img, err := pixkit.Mockup(src, opts)
	if err != nil {
		return invalidInput(err)
	}
	return sendImage(c, img, pixkit.PNG)
}
