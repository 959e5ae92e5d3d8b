package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/esimov/pixkit"
	"github.com/esimov/pixkit/utils"
)

const HelpBanner = `
┌─┐┬─┐ ┬┬┌─┬┌┬┐
├─┘│┌┴┬┘├┴┐│ │
┴  ┴┴ └─┴ ┴┴ ┴

Image, color, text and finance tools.
    Version: %s

Usage: pixkit <command> [flags]

Commands:
`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

type command struct {
	help string
	run  func(ctx context.Context, args []string) error
}

var commands = map[string]command{
	"resize":      {"resize images (fit, fill, exact, percentage, square)", runResize},
	"crop":        {"crop to a rectangle, an aspect ratio or around a face", runCrop},
	"filter":      {"apply a filter chain, e.g. grayscale,blur:2", runFilter},
	"watermark":   {"add a text or image watermark", runWatermark},
	"favicon":     {"generate a favicon set and archive", runFavicon},
	"mockup":      {"place a screenshot inside a device frame", runMockup},
	"draw":        {"replay an editor event script and export the drawing", runDraw},
	"color":       {"convert a color between notations", runColor},
	"contrast":    {"check the WCAG contrast of two colors", runContrast},
	"palette":     {"generate a color palette", runPalette},
	"readability": {"analyze the readability of a text", runReadability},
	"tax":         {"compute the federal income tax", runTax},
	"loan":        {"compute a loan amortization schedule", runLoan},
	"interest":    {"project compound interest", runInterest},
	"serve":       {"start the HTTP server", runServe},
}

func usage() {
	fmt.Fprintf(os.Stderr, HelpBanner, Version)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-12s %s\n", name, commands[name].help)
	}
	fmt.Fprintln(os.Stderr, "\nRun `pixkit <command> -h` for the command flags.")
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		usage()
		fatal(fmt.Errorf("unknown command %q", os.Args[1]))
	}

	// Capture CTRL-C so that running workers stop and the cursor is restored.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, os.Args[2:]); err != nil {
		stop()
		fatal(err)
	}
}

func fatal(err error) {
	log.Fatalf("%s %s",
		utils.DecorateText("Error:", utils.ErrorMessage),
		utils.DecorateText(err.Error(), utils.DefaultMessage),
	)
}

// newFlagSet returns a flag set with the shared -v flag.
func newFlagSet(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	verbose := fs.Bool("v", false, "Verbose (debug) logging")
	return fs, verbose
}

func parse(fs *flag.FlagSet, verbose *bool, args []string) {
	fs.Parse(args)
	if *verbose {
		pixkit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// label renders a left aligned, colored field name.
func label(s string) string {
	return utils.DecorateText(fmt.Sprintf("%-16s", s), utils.StatusMessage)
}
