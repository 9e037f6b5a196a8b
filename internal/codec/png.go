// Package codec reads and writes sprite rasters and draws onto them.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the only source extension the pipeline accepts.
const Ext = ".png"

// ErrUnreadableSource is matched by every decode failure.
var ErrUnreadableSource = errors.New("unreadable source image")

// UnreadableError reports a source raster that could not be opened or decoded.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("failed to read image %s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnreadableSource) hold for any UnreadableError.
func (e *UnreadableError) Is(target error) bool {
	return target == ErrUnreadableSource
}

// HasExt reports whether path carries the accepted extension, ignoring
// case. A bare extension with no file name does not count.
func HasExt(path string) bool {
	return len(path) > len(Ext) && strings.EqualFold(filepath.Ext(path), Ext)
}

// Decode reads a PNG file into an NRGBA raster with its origin at (0, 0).
func Decode(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}
	return ToNRGBA(img), nil
}

// ToNRGBA returns img as an NRGBA raster at the origin, converting only
// when needed. Non-premultiplied sources keep the colour of fully
// transparent pixels.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < b.Dy(); y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:], src.Pix[i:i+4*b.Dx()])
		}
	case *image.NRGBA64:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				out.SetNRGBA(x, y, nrgba(src.NRGBA64At(b.Min.X+x, b.Min.Y+y)))
			}
		}
	case *image.Paletted:
		palette := make([]color.NRGBA, len(src.Palette))
		for i, c := range src.Palette {
			palette[i] = nrgba(c)
		}
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				idx := int(src.ColorIndexAt(b.Min.X+x, b.Min.Y+y))
				if idx < len(palette) {
					out.SetNRGBA(x, y, palette[idx])
				}
			}
		}
	default:
		draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	}
	return out
}

// nrgba converts c without going through premultiplied alpha when c is
// already non-premultiplied.
func nrgba(c color.Color) color.NRGBA {
	switch v := c.(type) {
	case color.NRGBA:
		return v
	case color.NRGBA64:
		return color.NRGBA{uint8(v.R >> 8), uint8(v.G >> 8), uint8(v.B >> 8), uint8(v.A >> 8)}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// Encode writes img to path as a PNG, creating parent directories.
func Encode(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return f.Close()
}
