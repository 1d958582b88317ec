package mask

import (
	"image"

	"pixelsort/internal/colorattr"
)

// Band is an inclusive normalized range. Lower > Upper selects nothing.
type Band struct {
	Lower float64
	Upper float64
}

// Contains reports whether v lies in [Lower, Upper].
func (b Band) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Mask marks which pixels of an image are eligible for sorting.
// Included is row-major with Width*Height entries.
type Mask struct {
	Width    int
	Height   int
	Included []bool
}

// Build classifies every pixel of img by attr against band.
func Build(img *image.NRGBA, attr colorattr.Attribute, band Band) *Mask {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	m := &Mask{Width: w, Height: h, Included: make([]bool, w*h)}

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+3]
			m.Included[y*w+x] = band.Contains(attr.Normalized(p[0], p[1], p[2]))
		}
	}
	return m
}

// At reports whether the pixel at (x, y) is included.
func (m *Mask) At(x, y int) bool {
	return m.Included[y*m.Width+x]
}

// Count returns the number of included pixels.
func (m *Mask) Count() int {
	n := 0
	for _, in := range m.Included {
		if in {
			n++
		}
	}
	return n
}

// Coverage returns the included fraction, 0 for an empty mask.
func (m *Mask) Coverage() float64 {
	if len(m.Included) == 0 {
		return 0
	}
	return float64(m.Count()) / float64(len(m.Included))
}

// Image renders the mask as opaque white (included) on opaque black.
func (m *Mask) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, in := range m.Included {
		var v uint8
		if in {
			v = 255
		}
		p := img.Pix[i*4 : i*4+4]
		p[0], p[1], p[2], p[3] = v, v, v, 255
	}
	return img
}
