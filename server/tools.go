package server

import (
	"bytes"
	"encoding/json"
	"image/color"
	"strings"

	"github.com/esimov/pixkit"
	"github.com/esimov/pixkit/colors"
	"github.com/esimov/pixkit/editor"
	"github.com/esimov/pixkit/finance"
	"github.com/esimov/pixkit/seo"
	"github.com/gofiber/fiber/v3"
)

func decodeJSON(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return badRequest("body required")
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return badRequest("invalid JSON payload: %v", err)
	}
	return nil
}

func queryColor(c fiber.Ctx, key string) (colors.RGB, error) {
	v := c.Query(key)
	if v == "" {
		return colors.RGB{}, badRequest("%s is required", key)
	}
	return colors.Parse(v)
}

func handleColorConvert(c fiber.Ctx) error {
	rgb, err := queryColor(c, "value")
	if err != nil {
		return err
	}
	hsl, hsv, cmyk := colors.RGBToHSL(rgb), colors.RGBToHSV(rgb), colors.RGBToCMYK(rgb)
	return c.JSON(fiber.Map{
		"hex":  rgb.Hex(),
		"rgb":  rgb,
		"hsl":  hsl,
		"hsv":  hsv,
		"cmyk": cmyk,
		"css": fiber.Map{
			"rgb":  rgb.CSS(),
			"hsl":  hsl.CSS(),
			"hsv":  hsv.CSS(),
			"cmyk": cmyk.CSS(),
		},
		"luminance": colors.Luminance(rgb),
	})
}

func handleContrast(c fiber.Ctx) error {
	fg, err := queryColor(c, "fg")
	if err != nil {
		return err
	}
	bg, err := queryColor(c, "bg")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"compliance": colors.CheckContrast(fg, bg),
		"suggested":  colors.ReadableOn(bg).Hex(),
	})
}

func handlePalette(c fiber.Ctx) error {
	base, err := queryColor(c, "base")
	if err != nil {
		return err
	}
	scheme, err := colors.ParseScheme(c.Query("scheme", string(colors.Complementary)))
	if err != nil {
		return badRequest("%v", err)
	}
	pal, err := colors.Palette(base, scheme)
	if err != nil {
		return err
	}
	hex := make([]string, len(pal))
	for i, p := range pal {
		hex[i] = p.Hex()
	}
	return c.JSON(fiber.Map{"scheme": scheme, "colors": hex})
}

type readabilityRequest struct {
	Text        string `json:"text"`
	HTML        string `json:"html"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Keyword     string `json:"keyword"`
	Top         int    `json:"top"`
}

func handleReadability(c fiber.Ctx) error {
	var req readabilityRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	if req.Top <= 0 {
		req.Top = 10
	}
	resp := fiber.Map{
		"readability": seo.Analyze(req.Text),
		"keywords":    seo.KeywordDensity(req.Text, req.Top),
		"title":       seo.CheckTitle(req.Title),
		"description": seo.CheckDescription(req.Description),
	}
	if req.Keyword != "" {
		resp["focus"] = seo.PhraseDensity(req.Text, req.Keyword)
	}
	if req.Title != "" {
		resp["slug"] = seo.Slug(req.Title)
	}
	if req.HTML != "" {
		hs, err := seo.ScanHTML(strings.NewReader(req.HTML))
		if err != nil {
			return badRequest("could not parse html: %v", err)
		}
		resp["headings"] = hs
		resp["headingIssues"] = seo.CheckHeadings(hs)
	}
	return c.JSON(resp)
}

type taxRequest struct {
	Status              string  `json:"status"`
	Income              float64 `json:"income"`
	Itemized            float64 `json:"itemized"`
	NoStandardDeduction bool    `json:"noStandardDeduction"`
}

func handleTax(c fiber.Ctx) error {
	var req taxRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	status, err := finance.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	res, err := finance.Calculate(finance.Input{
		Status:              status,
		Income:              req.Income,
		Itemized:            req.Itemized,
		NoStandardDeduction: req.NoStandardDeduction,
	})
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func handleLoan(c fiber.Ctx) error {
	var loan finance.Loan
	if err := decodeJSON(c, &loan); err != nil {
		return err
	}
	sum, err := loan.Amortize()
	if err != nil {
		return err
	}
	return c.JSON(sum)
}

type interestRequest struct {
	Principal      float64 `json:"principal"`
	AnnualRate     float64 `json:"annualRate"`
	Years          int     `json:"years"`
	PeriodsPerYear int     `json:"periodsPerYear"`
	Contribution   float64 `json:"contribution"`
}

func handleInterest(c fiber.Ctx) error {
	var req interestRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	if req.PeriodsPerYear == 0 {
		req.PeriodsPerYear = 12
	}
	g, err := finance.Compound(req.Principal, req.AnnualRate, req.Years, req.PeriodsPerYear, req.Contribution)
	if err != nil {
		return err
	}
	return c.JSON(g)
}

type renderRequest struct {
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Format     string         `json:"format"`
	Background string         `json:"background"`
	SVG        string         `json:"svg"`
	Events     []editor.Event `json:"events"`
}

// handleEditorRender replays an event script, optionally on top of an imported
// SVG document, and exports the resulting drawing.
// importSVG loads the supported primitives of doc into the editor as a single undo step.
func importSVG(ed *editor.Editor, ids editor.IDGenerator, doc string) error {
	elems, err := editor.ImportSVG(strings.NewReader(doc), ids)
	if err != nil {
		return err
	}
	return ed.Store().Commit(elems)
}

func handleEditorRender(c fiber.Ctx) error {
	var req renderRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	if req.Width <= 0 {
		req.Width = 800
	}
	if req.Height <= 0 {
		req.Height = 600
	}

	ids := editor.NewSequence("el")
	ed := editor.New(ids)
	if req.SVG != "" {
		if err := importSVG(ed, ids, req.SVG); err != nil {
			return err
		}
	}
	if err := editor.Replay(ed, req.Events); err != nil {
		return badRequest("%v", err)
	}
	elems := ed.Store().Elements()

	var buf bytes.Buffer
	switch req.Format {
	case "", "svg":
		if err := editor.ExportSVG(&buf, elems, req.Width, req.Height); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "image/svg+xml")
	case "png":
		var bg color.Color = color.Transparent
		if req.Background != "" {
			rgb, err := colors.Parse(req.Background)
			if err != nil {
				return err
			}
			bg = rgb.NRGBA(1)
		}
		img, err := editor.ExportRaster(elems, int(req.Width), int(req.Height), bg)
		if err != nil {
			return err
		}
		if err := pixkit.Encode(&buf, img, pixkit.PNG, 0); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "image/png")
	case "pdf":
		if err := editor.ExportPDF(&buf, elems, req.Width, req.Height); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
	default:
		return badRequest("unknown export format %q", req.Format)
	}
	return c.Send(buf.Bytes())
}
