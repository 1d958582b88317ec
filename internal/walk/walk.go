package walk

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// MaskSuffix is appended to the output file name of the debug mask image.
const MaskSuffix = ".mask.png"

// Job is one input file and where its results go.
type Job struct {
	Name       string
	Input      string
	Output     string
	MaskOutput string
}

// List returns a job for every regular entry directly under inputDir,
// sorted by name. Subdirectories (including the output directory) and
// dot-files are skipped. No two jobs share an output or mask path.
func List(inputDir, outputDir string) ([]Job, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("walk: read %s: %w", inputDir, err)
	}

	var jobs []Job
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(inputDir, name)
		// Follow symlinks so a linked directory is still skipped.
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("walk: stat %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		jobs = append(jobs, Job{
			Name:   name,
			Input:  path,
			Output: filepath.Join(outputDir, name),
		})
	}

	slices.SortFunc(jobs, func(a, b Job) int { return strings.Compare(a.Name, b.Name) })

	// An input may itself be named like another input's mask; number those masks.
	taken := make(map[string]bool, len(jobs)*2)
	for _, j := range jobs {
		taken[j.Output] = true
	}
	for i := range jobs {
		mask := jobs[i].Output + MaskSuffix
		for n := 2; taken[mask]; n++ {
			mask = jobs[i].Output + ".mask" + strconv.Itoa(n) + ".png"
		}
		taken[mask] = true
		jobs[i].MaskOutput = mask
	}

	return jobs, nil
}
