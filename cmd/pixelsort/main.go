package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pixelsort/internal/batch"
	"pixelsort/internal/settings"
	"pixelsort/internal/walk"
)

func main() {
	// CLI flags
	settingsFile := flag.String("settings", settings.DefaultPath, "Path to settings.txt or a .json settings file")
	workers := flag.Int("workers", 0, "Goroutines sorting scan lines of one image (default: NumCPU)")
	failFast := flag.Bool("fail-fast", false, "Stop at the first file that cannot be processed")

	flag.Parse()

	cfg, created, err := settings.LoadOrCreate(*settingsFile)
	if created {
		fmt.Printf("Created default settings: %s\n", *settingsFile)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override the settings file
	cfg.Resolve(settings.Flags{
		Workers:  *workers,
		FailFast: *failFast,
	})

	if cfg.Debug {
		fmt.Printf("Settings: %s\n", cfg)
	}

	jobs, err := walk.List(cfg.InputDir, cfg.OutputDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing input: %v\n", err)
		os.Exit(1)
	}
	if len(jobs) == 0 {
		fmt.Println("No files to sort.")
		os.Exit(0)
	}

	fmt.Printf("Pixel sort: %s by %s, contrast %s in [%g, %g]\n",
		cfg.Direction, cfg.SortBy, cfg.ContrastBy, cfg.Band.Lower, cfg.Band.Upper)
	fmt.Printf("Files: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir())
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results, runErr := batch.Run(batch.Config{
		OutputDir:  cfg.OutputDir(),
		Direction:  cfg.Direction,
		SortBy:     cfg.SortBy,
		ContrastBy: cfg.ContrastBy,
		Band:       cfg.Band,
		Debug:      cfg.Debug,
		Workers:    cfg.Workers,
		FailFast:   cfg.FailFast,
	}, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Sorted: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(len(errors), 20)
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Debug manifest
	if cfg.Debug && len(results) > 0 {
		manifestPath := filepath.Join(cfg.OutputDir(), batch.ManifestName)
		if err := batch.WriteManifest(manifestPath, jobs, results, true); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", manifestPath)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
