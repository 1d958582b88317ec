// Package sorter reorders the pixels of masked spans along rows or columns.
//
// A span is a maximal run of included mask entries within one scan line.
// Spans are sorted independently; excluded pixels and the alpha channel of
// every position are never touched.
package sorter

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"pixelsort/internal/colorattr"
	"pixelsort/internal/mask"
)

// ErrDimensions is returned when the mask was not built for the image.
var ErrDimensions = errors.New("mask does not match image dimensions")

// Options tunes Sort. The zero value sorts sequentially without progress.
type Options struct {
	// Workers > 1 sorts scan lines concurrently.
	Workers int
	// Progress is called after each scan line with the number of finished
	// lines. With Workers > 1 it is called from several goroutines.
	Progress func(done, total int)
}

// Span is the half-open range [Start, End) of scan line Line.
type Span struct {
	Line  int
	Start int
	End   int
}

// Len returns the number of pixels in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

type pixel struct {
	r, g, b uint8
	key     float64
}

// lineSorter addresses one image as a set of scan lines along an axis.
type lineSorter struct {
	img   *image.NRGBA
	m     *mask.Mask
	key   colorattr.Attribute
	order Order
	axis  Axis
}

// Sort sorts every span of img selected by m by key, in the axis and order
// implied by dir. img is modified in place.
func Sort(img *image.NRGBA, m *mask.Mask, key colorattr.Attribute, dir Direction, opts *Options) error {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if m.Width != w || m.Height != h || len(m.Included) != w*h {
		return fmt.Errorf("sorter: image %dx%d, mask %dx%d (%d entries): %w",
			w, h, m.Width, m.Height, len(m.Included), ErrDimensions)
	}
	if w == 0 || h == 0 {
		return nil
	}
	if opts == nil {
		opts = &Options{}
	}

	s := &lineSorter{img: img, m: m, key: key, order: dir.Order(), axis: dir.Axis()}
	lines, length := s.dims()

	var done atomic.Int64
	finish := func() {
		n := done.Add(1)
		if opts.Progress != nil {
			opts.Progress(int(n), lines)
		}
	}

	workers := min(opts.Workers, lines)
	if workers <= 1 {
		buf := make([]pixel, length)
		for line := range lines {
			s.sortLine(line, buf)
			finish()
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	chunk := (lines + workers - 1) / workers
	for start := 0; start < lines; start += chunk {
		end := min(start+chunk, lines)
		g.Go(func() error {
			buf := make([]pixel, length)
			for line := start; line < end; line++ {
				s.sortLine(line, buf)
				finish()
			}
			return nil
		})
	}
	return g.Wait()
}

// Spans lists every span of m along axis, line by line.
func Spans(m *mask.Mask, axis Axis) []Span {
	s := &lineSorter{m: m, axis: axis}
	lines, length := s.dims()

	var spans []Span
	for line := range lines {
		s.scan(line, length, func(i, j int) {
			spans = append(spans, Span{Line: line, Start: i, End: j})
		})
	}
	return spans
}

func (s *lineSorter) dims() (lines, length int) {
	if s.axis == Columns {
		return s.m.Width, s.m.Height
	}
	return s.m.Height, s.m.Width
}

func (s *lineSorter) included(line, pos int) bool {
	if s.axis == Columns {
		return s.m.At(line, pos)
	}
	return s.m.At(pos, line)
}

// pixOffset returns the Pix index of position pos on scan line line.
func (s *lineSorter) pixOffset(line, pos int) int {
	if s.axis == Columns {
		return pos*s.img.Stride + line*4
	}
	return line*s.img.Stride + pos*4
}

// scan calls fn for each maximal run [i, j) of included entries on line.
func (s *lineSorter) scan(line, length int, fn func(i, j int)) {
	for i := 0; i < length; {
		if !s.included(line, i) {
			i++
			continue
		}
		j := i + 1
		for j < length && s.included(line, j) {
			j++
		}
		fn(i, j)
		i = j
	}
}

func (s *lineSorter) sortLine(line int, buf []pixel) {
	s.scan(line, len(buf), func(i, j int) {
		if j-i < 2 {
			return
		}
		span := buf[i:j]
		s.gather(line, i, span)
		if s.order == Descending {
			slices.SortFunc(span, func(a, b pixel) int { return cmp.Compare(b.key, a.key) })
		} else {
			slices.SortFunc(span, func(a, b pixel) int { return cmp.Compare(a.key, b.key) })
		}
		s.scatter(line, i, span)
	})
}

// gather copies RGB and the sort key of each span pixel into span.
func (s *lineSorter) gather(line, start int, span []pixel) {
	pix := s.img.Pix
	for k := range span {
		o := s.pixOffset(line, start+k)
		r, g, b := pix[o], pix[o+1], pix[o+2]
		span[k] = pixel{r: r, g: g, b: b, key: s.key.Raw(r, g, b)}
	}
}

// scatter writes RGB back; alpha stays with the position.
func (s *lineSorter) scatter(line, start int, span []pixel) {
	pix := s.img.Pix
	for k, p := range span {
		o := s.pixOffset(line, start+k)
		pix[o], pix[o+1], pix[o+2] = p.r, p.g, p.b
	}
}
