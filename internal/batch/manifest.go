package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pixelsort/internal/walk"
)

// ManifestName is the debug manifest written next to the sorted images.
const ManifestName = "manifest.json"

// ManifestEntry describes one processed file.
type ManifestEntry struct {
	Name       string  `json:"name"`
	Output     string  `json:"output,omitempty"`
	Mask       string  `json:"mask,omitempty"`
	Success    bool    `json:"success"`
	Error      string  `json:"error,omitempty"`
	Included   int     `json:"included"`
	Total      int     `json:"total"`
	DurationMS float64 `json:"duration_ms"`
}

// WriteManifest writes the outcome of every job to path. Output paths are
// relative to the manifest's directory.
func WriteManifest(path string, jobs []walk.Job, results []Result, withMask bool) error {
	dir := filepath.Dir(path)
	rel := func(p string) string {
		if r, err := filepath.Rel(dir, p); err == nil {
			return filepath.ToSlash(r)
		}
		return p
	}

	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		e := ManifestEntry{
			Name:       r.Name,
			Success:    r.Success,
			Error:      r.Error,
			Included:   r.Included,
			Total:      r.Total,
			DurationMS: float64(r.Duration.Microseconds()) / 1000,
		}
		if r.Success && i < len(jobs) {
			e.Output = rel(jobs[i].Output)
			if withMask {
				e.Mask = rel(jobs[i].MaskOutput)
			}
		}
		entries[i] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	return nil
}
