package preview

import (
	"image"

	"golang.org/x/image/draw"
)

// Gap is the transparent spacing between tiles of a contact sheet.
const Gap = 4

// ContactSheet scales every tile to height and lays them out left to right.
// Nil and empty tiles are skipped.
func ContactSheet(tiles []*image.NRGBA, height int) *image.NRGBA {
	var scaled []*image.NRGBA
	width := 0
	for _, t := range tiles {
		if t == nil || t.Bounds().Empty() {
			continue
		}
		s := Scale(t, height)
		if len(scaled) > 0 {
			width += Gap
		}
		width += s.Bounds().Dx()
		scaled = append(scaled, s)
	}

	sheet := image.NewNRGBA(image.Rect(0, 0, width, height))
	x := 0
	for _, s := range scaled {
		r := s.Bounds().Add(image.Pt(x, 0))
		draw.Copy(sheet, r.Min, s, s.Bounds(), draw.Src, nil)
		x += s.Bounds().Dx() + Gap
	}
	return sheet
}

// Scale resizes img to the given height, keeping its aspect ratio, with
// premultiplied-alpha-aware Catmull-Rom filtering. Transparent pixels do
// not bleed dark fringes into their neighbours.
func Scale(img *image.NRGBA, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dy() == height {
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
		return dst
	}
	width := max(1, b.Dx()*height/b.Dy())

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premultiply(img), b, draw.Src, nil)
	return unpremultiply(dst)
}

// premultiply converts straight alpha to the premultiplied RGBA the
// scaler expects. image.RGBA holds premultiplied color.
func premultiply(src *image.NRGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si, di := src.PixOffset(b.Min.X, y), dst.PixOffset(b.Min.X, y)
		for range b.Dx() {
			a := uint32(src.Pix[si+3])
			for c := range 3 {
				dst.Pix[di+c] = uint8((uint32(src.Pix[si+c])*a + 127) / 255)
			}
			dst.Pix[di+3] = uint8(a)
			si, di = si+4, di+4
		}
	}
	return dst
}

// unpremultiply is the inverse of premultiply. Fully transparent pixels
// come back as transparent black.
func unpremultiply(src *image.RGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si, di := src.PixOffset(b.Min.X, y), dst.PixOffset(b.Min.X, y)
		for range b.Dx() {
			a := uint32(src.Pix[si+3])
			if a > 0 {
				for c := range 3 {
					dst.Pix[di+c] = uint8(min(255, (uint32(src.Pix[si+c])*255+a/2)/a))
				}
			}
			dst.Pix[di+3] = uint8(a)
			si, di = si+4, di+4
		}
	}
	return dst
}
