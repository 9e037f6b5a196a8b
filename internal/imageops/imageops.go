// Package imageops holds the standalone raster tools: resampling a sprite
// and clearing a white background to transparency.
package imageops

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// NoiseFloor is the channel sum below which a resampled pixel is cleared.
const NoiseFloor = 10

// WhiteThreshold is the channel sum at or above which ClearBackground
// treats a pixel as background.
const WhiteThreshold = 254 * 3

// Scale resamples src to w x h with a Catmull-Rom filter. A non-positive
// size defaults to half the source size. Pixels whose r+g+b falls below
// NoiseFloor become fully transparent.
func Scale(src image.Image, w, h int) *image.NRGBA {
	b := src.Bounds()
	if w <= 0 || h <= 0 {
		w, h = max(b.Dx()/2, 1), max(b.Dy()/2, 1)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := dst.NRGBAAt(x, y)
			if int(c.R)+int(c.G)+int(c.B) < NoiseFloor {
				dst.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
	return dst
}

// ClearBackground returns a copy of src with near-white pixels made fully
// transparent.
func ClearBackground(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := dst.NRGBAAt(x, y)
			if int(c.R)+int(c.G)+int(c.B) >= WhiteThreshold {
				dst.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
	return dst
}
