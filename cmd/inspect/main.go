package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"pixelsort/internal/imageio"
	"pixelsort/internal/mask"
	"pixelsort/internal/preview"
	"pixelsort/internal/settings"
	"pixelsort/internal/sorter"
)

func main() {
	settingsFile := flag.String("settings", settings.DefaultPath, "Settings file providing direction, keys and contrast band")
	previewOut := flag.String("preview", "", "Write an original|mask|sorted contact sheet; with several images the file name gets the image stem appended")
	height := flag.Int("height", 256, "Preview tile height")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: inspect [-settings settings.txt] [-preview sheet.png] [-height 256] image...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := settings.Load(*settingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}

	errors := 0
	for _, path := range flag.Args() {
		out := *previewOut
		if out != "" && flag.NArg() > 1 {
			ext := filepath.Ext(out)
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			out = strings.TrimSuffix(out, ext) + "_" + stem + ext
		}
		if err := inspect(cfg, path, out, *height); err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			errors++
		}
	}
	if errors > 0 {
		os.Exit(1)
	}
}

func inspect(cfg settings.Settings, path, previewOut string, height int) error {
	img, format, err := imageio.Decode(path)
	if err != nil {
		return err
	}
	b := img.Bounds()
	fmt.Printf("%s: %dx%d %s\n", path, b.Dx(), b.Dy(), format)

	m := mask.Build(img, cfg.ContrastBy, cfg.Band)
	fmt.Printf("  Contrast %s in [%g, %g]: %d/%d pixels (%.1f%%)\n",
		cfg.ContrastBy, cfg.Band.Lower, cfg.Band.Upper, m.Count(), len(m.Included), m.Coverage()*100)

	axis := cfg.Direction.Axis()
	spans := sorter.Spans(m, axis)
	longest, sortable := 0, 0
	for _, s := range spans {
		longest = max(longest, s.Len())
		if s.Len() > 1 {
			sortable++
		}
	}
	fmt.Printf("  Spans along %s: %d (%d longer than one pixel), longest %d\n", axis, len(spans), sortable, longest)

	if previewOut == "" {
		return nil
	}

	sorted := imageio.ToNRGBA(img)
	if err := sorter.Sort(sorted, m, cfg.SortBy, cfg.Direction, &sorter.Options{Workers: cfg.Workers}); err != nil {
		return err
	}
	sheet := preview.ContactSheet([]*image.NRGBA{img, m.Image(), sorted}, height)
	if err := imageio.Encode(previewOut, sheet, imageio.Unknown); err != nil {
		return err
	}
	fmt.Printf("  Preview: %s\n", previewOut)
	return nil
}
