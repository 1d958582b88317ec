package mask

import (
	"image"
	"image/color"
	"testing"

	"pixelsort/internal/colorattr"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(i * 7),
				G: uint8(i * 13),
				B: uint8(255 - i*5),
				A: uint8(100 + i),
			})
		}
	}
	return img
}

func TestBuildMatchesBand(t *testing.T) {
	img := gradient(8, 6)
	attrs := []colorattr.Attribute{
		colorattr.Red, colorattr.Green, colorattr.Blue,
		colorattr.Hue, colorattr.Saturation, colorattr.Value,
	}
	bands := []Band{{0, 1}, {0.25, 0.75}, {0.5, 1}, {0, 0}, {1, 0}}

	for _, attr := range attrs {
		for _, band := range bands {
			m := Build(img, attr, band)
			if m.Width != 8 || m.Height != 6 || len(m.Included) != 48 {
				t.Fatalf("%s: bad dims %dx%d/%d", attr, m.Width, m.Height, len(m.Included))
			}
			for y := 0; y < 6; y++ {
				for x := 0; x < 8; x++ {
					c := img.NRGBAAt(x, y)
					v := attr.Normalized(c.R, c.G, c.B)
					want := band.Lower <= v && v <= band.Upper
					if m.At(x, y) != want {
						t.Fatalf("%s %v: pixel (%d,%d) value %v: got %v want %v",
							attr, band, x, y, v, m.At(x, y), want)
					}
				}
			}
		}
	}
}

func TestBuildBoundaryInclusive(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 50, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 51, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{R: 204, A: 255})

	m := Build(img, colorattr.Red, Band{Lower: 51.0 / 255, Upper: 204.0 / 255})
	want := []bool{false, true, true}
	for i, w := range want {
		if m.Included[i] != w {
			t.Fatalf("pixel %d: got %v want %v", i, m.Included[i], w)
		}
	}

	m = Build(img, colorattr.Red, Band{Lower: 51.0 / 255, Upper: 51.0 / 255})
	if m.Count() != 1 || !m.Included[1] {
		t.Fatalf("single-value band: %v", m.Included)
	}
}

func TestBuildEmptyBand(t *testing.T) {
	m := Build(gradient(4, 4), colorattr.Value, Band{Lower: 1, Upper: 0})
	if m.Count() != 0 || m.Coverage() != 0 {
		t.Fatalf("inverted band selected %d pixels", m.Count())
	}
}

func TestBuildSubImage(t *testing.T) {
	img := gradient(6, 6)
	sub := img.SubImage(image.Rect(2, 2, 5, 4)).(*image.NRGBA)
	m := Build(sub, colorattr.Red, Band{Lower: 0, Upper: 1})
	if m.Width != 3 || m.Height != 2 || m.Count() != 6 {
		t.Fatalf("sub-image mask: %dx%d count %d", m.Width, m.Height, m.Count())
	}
}

func TestImage(t *testing.T) {
	m := &Mask{Width: 2, Height: 1, Included: []bool{true, false}}
	img := m.Image()
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Fatalf("included pixel: %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Fatalf("excluded pixel: %v", got)
	}
	if m.Coverage() != 0.5 {
		t.Fatalf("coverage %v", m.Coverage())
	}
}
