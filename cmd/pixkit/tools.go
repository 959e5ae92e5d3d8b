package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/esimov/pixkit"
	"github.com/esimov/pixkit/colors"
	"github.com/esimov/pixkit/editor"
	"github.com/esimov/pixkit/finance"
	"github.com/esimov/pixkit/seo"
	"github.com/esimov/pixkit/server"
	"github.com/esimov/pixkit/utils"
)

func runDraw(ctx context.Context, args []string) error {
	fs, verbose := newFlagSet("draw")
	var (
		script      = fs.String("script", pipeName, "JSON event script")
		importSVG   = fs.String("import", "", "SVG document loaded before the script runs")
		destination = fs.String("out", pipeName, "Destination file (.svg, .png, .jpg or .pdf)")
		format      = fs.String("format", "", "Export format when writing to stdout: svg, png or pdf")
		width       = fs.Float64("width", 800, "Canvas width")
		height      = fs.Float64("height", 600, "Canvas height")
		background  = fs.String("bg", "", "Raster background color, transparent when empty")
		uuids       = fs.Bool("uuid", false, "Use random UUIDs as element ids")
	)
	parse(fs, verbose, args)

	var ids editor.IDGenerator = editor.NewSequence("el")
	if *uuids {
		ids = editor.NewUUIDGenerator()
	}
	ed := editor.New(ids)

	if *importSVG != "" {
		f, err := os.Open(*importSVG)
		if err != nil {
			return err
		}
		elems, err := editor.ImportSVG(f, ids)
		f.Close()
		if err != nil {
			return err
		}
		if err := ed.Store().Commit(elems); err != nil {
			return err
		}
	}

	var r io.Reader = os.Stdin
	if *script != pipeName {
		f, err := os.Open(*script)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	events, err := editor.ReadEvents(r)
	if err != nil {
		return err
	}
	if err := editor.Replay(ed, events); err != nil {
		return err
	}
	elems := ed.Store().Elements()

	kind := strings.ToLower(*format)
	if kind == "" && *destination != pipeName {
		kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(*destination)), ".")
	}
	return writeOutput(*destination, func(w io.Writer) error {
		switch kind {
		case "", "svg":
			return editor.ExportSVG(w, elems, *width, *height)
		case "pdf":
			return editor.ExportPDF(w, elems, *width, *height)
		}
		f, err := pixkit.FormatFromExt(kind)
		if err != nil {
			return err
		}
		var bg color.Color = color.Transparent
		if *background != "" {
			c, err := colors.Parse(*background)
			if err != nil {
				return err
			}
			bg = c.NRGBA(1)
		}
		img, err := editor.ExportRaster(elems, int(*width), int(*height), bg)
		if err != nil {
			return err
		}
		return pixkit.Encode(w, img, f, 0)
	})
}

func runColor(_ context.Context, args []string) error {
	fs, verbose := newFlagSet("color")
	asJSON := fs.Bool("json", false, "Print JSON")
	parse(fs, verbose, args)
	if fs.NArg() != 1 {
		return errors.New("usage: pixkit color [-json] <color>")
	}

	c, err := colors.Parse(fs.Arg(0))
	if err != nil {
		return err
	}
	hsl, hsv, cmyk := colors.RGBToHSL(c), colors.RGBToHSV(c), colors.RGBToCMYK(c)
	if *asJSON {
		return printJSON(map[string]any{
			"hex": c.Hex(), "rgb": c, "hsl": hsl, "hsv": hsv, "cmyk": cmyk,
			"luminance": colors.Luminance(c),
		})
	}
	fmt.Println(label("hex"), c.Hex())
	fmt.Println(label("rgb"), c.CSS())
	fmt.Println(label("hsl"), hsl.CSS())
	fmt.Println(label("hsv"), hsv.CSS())
	fmt.Println(label("cmyk"), cmyk.CSS())
	fmt.Println(label("luminance"), fmt.Sprintf("%.4f", colors.Luminance(c)))
	return nil
}

func runContrast(_ context.Context, args []string) error {
	fs, verbose := newFlagSet("contrast")
	var (
		fg     = fs.String("fg", "#000000", "Foreground color")
		bg     = fs.String("bg", "#ffffff", "Background color")
		asJSON = fs.Bool("json", false, "Print JSON")
	)
	parse(fs, verbose, args)

	fore, err := colors.Parse(*fg)
	if err != nil {
		return err
	}
	back, err := colors.Parse(*bg)
	if err != nil {
		return err
	}
	res := colors.CheckContrast(fore, back)
	if *asJSON {
		return printJSON(res)
	}
	fmt.Println(label("ratio"), fmt.Sprintf("%.2f:1", res.Ratio))
	for _, lvl := range []struct {
		name string
		ok   bool
	}{
		{"AA", res.AA}, {"AA large", res.AALarge}, {"AAA", res.AAA}, {"AAA large", res.AAALarge},
	} {
		fmt.Println(label(lvl.name), verdict(lvl.ok))
	}
	if !res.AA {
		fmt.Println(label("suggested"), colors.ReadableOn(back).Hex())
	}
	return nil
}

func verdict(ok bool) string {
	if ok {
		return utils.DecorateText("pass", utils.SuccessMessage)
	}
	return utils.DecorateText("fail", utils.ErrorMessage)
}

func runPalette(_ context.Context, args []string) error {
	fs, verbose := newFlagSet("palette")
	var (
		base   = fs.String("base", "#3b82f6", "Base color")
		scheme = fs.String("scheme", string(colors.Complementary), "Palette scheme")
		asJSON = fs.Bool("json", false, "Print JSON")
	)
	parse(fs, verbose, args)

	c, err := colors.Parse(*base)
	if err != nil {
		return err
	}
	s, err := colors.ParseScheme(*scheme)
	if err != nil {
		return err
	}
	palette, err := colors.Palette(c, s)
	if err != nil {
		return err
	}
	hex := make([]string, len(palette))
	for i, p := range palette {
		hex[i] = p.Hex()
	}
	if *asJSON {
		return printJSON(map[string]any{"scheme": s, "colors": hex})
	}
	fmt.Println(strings.Join(hex, " "))
	return nil
}

func runReadability(_ context.Context, args []string) error {
	fs, verbose := newFlagSet("readability")
	var (
		source  = fs.String("in", pipeName, "Text, markdown or HTML file")
		html    = fs.Bool("html", false, "Treat the input as HTML and check its headings")
		title   = fs.String("title", "", "Page title")
		desc    = fs.String("desc", "", "Meta description")
		keyword = fs.String("keyword", "", "Focus keyword or phrase")
		top     = fs.Int("top", 10, "Number of keywords listed")
		asJSON  = fs.Bool("json", false, "Print JSON")
	)
	parse(fs, verbose, args)

	var (
		data []byte
		err  error
	)
	if *source == pipeName {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*source)
	}
	if err != nil {
		return err
	}

	doc := string(data)
	var headings []seo.Heading
	if *html {
		if headings, err = seo.ScanHTML(strings.NewReader(doc)); err != nil {
			return err
		}
	} else if headings, err = seo.ScanHeadings(doc); err != nil {
		return err
	}

	report := seo.Analyze(doc)
	keywords := seo.KeywordDensity(doc, *top)
	issues := seo.CheckHeadings(headings)
	if *asJSON {
		out := map[string]any{
			"readability":   report,
			"keywords":      keywords,
			"headings":      headings,
			"headingIssues": issues,
			"title":         seo.CheckTitle(*title),
			"description":   seo.CheckDescription(*desc),
		}
		if *keyword != "" {
			out["focus"] = seo.PhraseDensity(doc, *keyword)
		}
		if *title != "" {
			out["slug"] = seo.Slug(*title)
		}
		return printJSON(out)
	}

	fmt.Println(label("words"), report.Words)
	fmt.Println(label("sentences"), report.Sentences)
	fmt.Println(label("reading ease"), fmt.Sprintf("%.1f (%s)", report.ReadingEase, report.Level))
	fmt.Println(label("grade"), fmt.Sprintf("%.1f", report.Grade))
	fmt.Println(label("reading time"), utils.FormatTime(report.ReadingTime))
	for _, k := range keywords {
		fmt.Println(label(k.Word), fmt.Sprintf("%d (%.2f%%)", k.Count, k.Density))
	}
	if *keyword != "" {
		k := seo.PhraseDensity(doc, *keyword)
		fmt.Println(label("focus"), fmt.Sprintf("%q %d (%.2f%%)", k.Word, k.Count, k.Density))
	}
	if *title != "" {
		t := seo.CheckTitle(*title)
		fmt.Println(label("title"), fmt.Sprintf("%d chars, %s", t.Length, t.Status))
		fmt.Println(label("slug"), seo.Slug(*title))
	}
	if *desc != "" {
		d := seo.CheckDescription(*desc)
		fmt.Println(label("description"), fmt.Sprintf("%d chars, %s", d.Length, d.Status))
	}
	for _, is := range issues {
		fmt.Println(utils.DecorateText("⚠ "+is.Message, utils.WarningMessage))
	}
	return nil
}

func runTax(_ context.Context, args []string) error {
	fs, verbose := newFlagSet("tax")
	var (
		status   = fs.String("status", string(finance.Single), "Filing status: single or married-joint")
		income   = fs.Float64("income", 0, "Gross income")
		itemized = fs.Float64("itemized", 0, "Itemized deductions, used when above the standard deduction")
		noStd    = fs.Bool("no-standard", false, "Skip the standard deduction")
		asJSON   = fs.Bool("json", false, "Print JSON")
	)
	parse(fs, verbose, args)

	st, err := finance.ParseStatus(*status)
	if err != nil {
		return err
	}
	res, err := finance.Calculate(finance.Input{
		Status:              st,
		Income:              *income,
		Itemized:            *itemized,
		NoStandardDeduction: *noStd,
	})
	if err != nil {
		return err
	}
	if *asJSON {
		return printJSON(res)
	}
	fmt.Println(label("taxable income"), money(res.TaxableIncome))
	for _, l := range res.Breakdown {
		to := "∞"
		if l.To > 0 {
			to = money(l.To)
		}
		fmt.Printf("  %5.1f%%  %12s - %-12s %12s\n", l.Rate, money(l.From), to, money(l.Tax))
	}
	fmt.Println(label("tax"), money(res.Tax))
	fmt.Println(label("marginal rate"), fmt.Sprintf("%.0f%%", res.MarginalRate))
	fmt.Println(label("effective rate"), fmt.Sprintf("%.2f%%", res.EffectiveRate))
	fmt.Println(label("net income"), money(res.NetIncome))
	return nil
}

func runLoan(_ context.Context, args []string) error {
	fs, verbose := newFlagSet("loan")
	var (
		principal = fs.Float64("principal", 0, "Loan amount")
		rate      = fs.Float64("rate", 0, "Annual interest rate in percent")
		months    = fs.Int("months", 360, "Loan term in months")
		schedule  = fs.Bool("schedule", false, "Print the amortization schedule")
		asJSON    = fs.Bool("json", false, "Print JSON")
	)
	parse(fs, verbose, args)

	sum, err := finance.Loan{Principal: *principal, AnnualRate: *rate, Months: *months}.Amortize()
	if err != nil {
		return err
	}
	if *asJSON {
		if !*schedule {
			sum.Schedule = nil
		}
		return printJSON(sum)
	}
	if *schedule {
		for _, in := range sum.Schedule {
			fmt.Printf("%4d %12s %12s %12s\n", in.Month, money(in.Principal), money(in.Interest), money(in.Balance))
		}
	}
	fmt.Println(label("payment"), money(sum.Payment))
	fmt.Println(label("total paid"), money(sum.TotalPaid))
	fmt.Println(label("total interest"), money(sum.TotalInterest))
	return nil
}

func runInterest(_ context.Context, args []string) error {
	fs, verbose := newFlagSet("interest")
	var (
		principal    = fs.Float64("principal", 0, "Initial deposit")
		rate         = fs.Float64("rate", 0, "Annual interest rate in percent")
		years        = fs.Int("years", 10, "Number of years")
		periods      = fs.Int("periods", 12, "Compounding periods per year")
		contribution = fs.Float64("contribution", 0, "Deposit added every period")
		asJSON       = fs.Bool("json", false, "Print JSON")
	)
	parse(fs, verbose, args)

	g, err := finance.Compound(*principal, *rate, *years, *periods, *contribution)
	if err != nil {
		return err
	}
	if *asJSON {
		return printJSON(g)
	}
	for _, y := range g.Yearly {
		fmt.Printf("%4d %14s %12s\n", y.Year, money(y.Balance), money(y.Interest))
	}
	fmt.Println(label("future value"), money(g.FutureValue))
	fmt.Println(label("contributions"), money(g.Contributions))
	fmt.Println(label("interest"), money(g.Interest))
	return nil
}

func money(v float64) string { return fmt.Sprintf("%.2f", v) }

func runServe(ctx context.Context, args []string) error {
	fs, verbose := newFlagSet("serve")
	cfg := server.Load()
	fs.StringVar(&cfg.Port, "port", cfg.Port, "Listening port")
	fs.StringVar(&cfg.CascadePath, "cascade", cfg.CascadePath, "Pigo face cascade file")
	parse(fs, verbose, args)

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s %s\n",
		utils.DecorateText("⚡ PIXKIT", utils.StatusMessage),
		utils.DecorateText("listening on :"+cfg.Port, utils.DefaultMessage),
	)
	return srv.Listen(ctx)
}
