package batch

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"pixelsort/internal/colorattr"
	"pixelsort/internal/imageio"
	"pixelsort/internal/mask"
	"pixelsort/internal/sorter"
	"pixelsort/internal/walk"
)

// Config holds everything shared by the files of one run.
type Config struct {
	OutputDir  string
	Direction  sorter.Direction
	SortBy     colorattr.Attribute
	ContrastBy colorattr.Attribute
	Band       mask.Band
	Debug      bool
	Workers    int
	FailFast   bool

	// Log receives progress lines. Nil means os.Stdout.
	Log io.Writer
	// ReportEvery is the interval of the background progress line.
	// Zero means 2s.
	ReportEvery time.Duration
}

// Result holds the outcome of processing one file.
type Result struct {
	Name     string
	Success  bool
	Error    string
	Included int
	Total    int
	Duration time.Duration
}

// Run processes jobs one at a time, in order. A failing file is recorded in
// its Result and the run continues, unless FailFast is set, in which case
// Run stops and returns the error together with the results so far.
func Run(cfg Config, jobs []walk.Job) ([]Result, error) {
	if cfg.Log == nil {
		cfg.Log = os.Stdout
	}
	cfg.Log = &lockedWriter{w: cfg.Log}
	if cfg.ReportEvery <= 0 {
		cfg.ReportEvery = 2 * time.Second
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("batch: create output directory %s: %w", cfg.OutputDir, err)
	}

	total := len(jobs)
	results := make([]Result, 0, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(cfg.ReportEvery)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Fprintf(cfg.Log, "  [%d/%d] %.2f files/sec\n", p, total, rate)
				}
			}
		}
	}()
	defer func() {
		close(done)
		<-stopped
	}()

	for _, job := range jobs {
		r := processFile(cfg, job)
		results = append(results, r)
		processed.Add(1)
		if !r.Success && cfg.FailFast {
			return results, fmt.Errorf("batch: %s: %s", r.Name, r.Error)
		}
	}

	return results, nil
}

func processFile(cfg Config, job walk.Job) Result {
	started := time.Now()
	res := Result{Name: job.Name}
	fail := func(err error) Result {
		res.Error = err.Error()
		res.Duration = time.Since(started)
		return res
	}
	logf := func(format string, args ...any) {
		if cfg.Debug {
			fmt.Fprintf(cfg.Log, format, args...)
		}
	}

	logf("Opening image: %s\n", job.Input)
	img, format, err := imageio.Decode(job.Input)
	if err != nil {
		return fail(err)
	}

	logf("Creating contrast map\n")
	m := mask.Build(img, cfg.ContrastBy, cfg.Band)
	res.Included = m.Count()
	res.Total = len(m.Included)

	if cfg.Debug {
		logf("Saving contrast map: %s\n", job.MaskOutput)
		if err := imageio.Encode(job.MaskOutput, m.Image(), imageio.PNG); err != nil {
			return fail(err)
		}
	}

	logf("Sorting pixels\n")
	opts := &sorter.Options{Workers: cfg.Workers}
	if cfg.Debug {
		var lastPct atomic.Int64
		lastPct.Store(-1)
		opts.Progress = func(done, total int) {
			pct := int64(done * 100 / total)
			if pct%10 == 0 && lastPct.Swap(pct) != pct {
				fmt.Fprintf(cfg.Log, "  %d%%\n", pct)
			}
		}
	}
	if err := sorter.Sort(img, m, cfg.SortBy, cfg.Direction, opts); err != nil {
		return fail(err)
	}

	logf("Saving image: %s\n", job.Output)
	if err := imageio.Encode(job.Output, img, format); err != nil {
		return fail(err)
	}

	res.Success = true
	res.Duration = time.Since(started)
	fmt.Fprintf(cfg.Log, "Sorted %s (%d/%d pixels in band) in %s\n",
		job.Name, res.Included, res.Total, res.Duration.Round(time.Millisecond))
	return res
}

// lockedWriter serialises writes from the reporter and sorter goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
