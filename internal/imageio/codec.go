package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Format identifies an on-disk image encoding.
type Format string

const (
	PNG     Format = "png"
	JPEG    Format = "jpeg"
	GIF     Format = "gif"
	BMP     Format = "bmp"
	TIFF    Format = "tiff"
	TGA     Format = "tga"
	WebP    Format = "webp"
	Unknown Format = ""
)

// JPEGQuality is used when re-encoding JPEG output.
const JPEGQuality = 95

// FormatFromPath returns the format implied by the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG
	case ".jpg", ".jpeg", ".jpe", ".jfif":
		return JPEG
	case ".gif":
		return GIF
	case ".bmp":
		return BMP
	case ".tif", ".tiff":
		return TIFF
	case ".tga":
		return TGA
	case ".webp":
		return WebP
	}
	return Unknown
}

// Decode reads an image file and returns an owned NRGBA copy with its
// origin at (0, 0). Known extensions use their decoder directly; anything
// else is identified by its magic number, with TGA tried last since it has
// none.
func Decode(path string) (*image.NRGBA, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Unknown, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	format := FormatFromPath(path)
	if format == Unknown {
		format = sniff(br)
	}
	if format == Unknown {
		format = TGA
	}

	img, err := decode(br, format)
	if err != nil {
		return nil, Unknown, fmt.Errorf("imageio: decode %s as %s: %w", path, format, err)
	}

	return ToNRGBA(img), format, nil
}

// magics maps leading bytes to formats. '?' matches any byte.
var magics = []struct {
	prefix string
	format Format
}{
	{"\x89PNG\r\n\x1a\n", PNG},
	{"\xff\xd8", JPEG},
	{"GIF87a", GIF},
	{"GIF89a", GIF},
	{"BM", BMP},
	{"II*\x00", TIFF},
	{"MM\x00*", TIFF},
	{"RIFF????WEBP", WebP},
}

// sniff identifies the format from the first bytes of r without consuming them.
func sniff(r *bufio.Reader) Format {
	for _, m := range magics {
		head, err := r.Peek(len(m.prefix))
		if err != nil {
			continue
		}
		if matchMagic(m.prefix, head) {
			return m.format
		}
	}
	return Unknown
}

func matchMagic(prefix string, head []byte) bool {
	for i := range len(prefix) {
		if prefix[i] != '?' && prefix[i] != head[i] {
			return false
		}
	}
	return true
}

func decode(r io.Reader, format Format) (image.Image, error) {
	switch format {
	case PNG:
		return png.Decode(r)
	case JPEG:
		return jpeg.Decode(r)
	case GIF:
		return gif.Decode(r)
	case BMP:
		return bmp.Decode(r)
	case TIFF:
		return tiff.Decode(r)
	case TGA:
		return tga.Decode(r)
	case WebP:
		return webp.Decode(r)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// ToNRGBA copies src into a new NRGBA image anchored at the origin.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			si := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], n.Pix[si:si+b.Dx()*4])
		}
		return dst
	}
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Encode writes img to path in the given format. An Unknown format falls
// back to the path's extension and then to PNG.
func Encode(path string, img image.Image, format Format) error {
	if format == Unknown {
		format = FormatFromPath(path)
	}
	if format == Unknown {
		format = PNG
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if err := encode(w, img, format); err != nil {
		f.Close()
		return fmt.Errorf("imageio: encode %s as %s: %w", path, format, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("imageio: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("imageio: close %s: %w", path, err)
	}
	return nil
}

func encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case GIF:
		return gif.Encode(w, img, nil)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case TGA:
		return tga.Encode(w, img)
	case WebP:
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("unsupported format %q", format)
}
