// Package bounding derives a tight, up-to-eight-vertex polygon around the
// visible pixels of a sprite by cutting its rectangle's corners diagonally.
package bounding

import (
	"image"
	"image/color"

	"github.com/piwi3910/SpriteCut/internal/geom"
)

// Columns summarises a raster by the extreme valid pixel of every column.
// All cut tests consult only these two arrays, never the raster.
type Columns struct {
	Width  int
	Height int
	Top    []int // Smallest valid row per column, Height if the column is empty
	Bottom []int // Largest valid row per column, -1 if the column is empty
}

// NewColumns returns a summary with every column empty.
func NewColumns(w, h int) Columns {
	c := Columns{
		Width:  w,
		Height: h,
		Top:    make([]int, w),
		Bottom: make([]int, w),
	}
	for x := 0; x < w; x++ {
		c.Top[x] = h
		c.Bottom[x] = -1
	}
	return c
}

// Mark records that pixel (x, y) is valid.
func (c *Columns) Mark(x, y int) {
	if y < c.Top[x] {
		c.Top[x] = y
	}
	if y > c.Bottom[x] {
		c.Bottom[x] = y
	}
}

// Empty reports whether column x holds no valid pixel.
func (c Columns) Empty(x int) bool {
	return c.Bottom[x] < 0
}

// Bounds returns the tight box of valid pixels, or an empty Rect.
func (c Columns) Bounds() geom.Rect {
	left, right := -1, -1
	top, bottom := c.Height, -1
	for x := 0; x < c.Width; x++ {
		if c.Empty(x) {
			continue
		}
		if left < 0 {
			left = x
		}
		right = x
		if c.Top[x] < top {
			top = c.Top[x]
		}
		if c.Bottom[x] > bottom {
			bottom = c.Bottom[x]
		}
	}
	if left < 0 {
		return geom.Rect{}
	}
	return geom.Rect{Min: geom.Pt(left, top), Max: geom.Pt(right+1, bottom+1)}
}

// ValidPixel reports whether a pixel is anything other than fully
// transparent black. Colors are compared unpremultiplied so that a zero
// alpha with non-zero color channels still counts.
func ValidPixel(img image.Image, x, y int) bool {
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return c.R|c.G|c.B|c.A != 0
}

// Scan builds the column summary of img in one pass over every pixel.
// Coordinates are relative to img.Bounds().Min.
func Scan(img image.Image) Columns {
	b := img.Bounds()
	cols := NewColumns(b.Dx(), b.Dy())

	if nrgba, ok := img.(*image.NRGBA); ok {
		scanNRGBA(nrgba, &cols)
		return cols
	}

	for x := 0; x < cols.Width; x++ {
		for y := 0; y < cols.Height; y++ {
			if ValidPixel(img, b.Min.X+x, b.Min.Y+y) {
				cols.Mark(x, y)
			}
		}
	}
	return cols
}

// scanNRGBA reads the pixel buffer directly; any non-zero byte of a pixel
// makes it valid.
func scanNRGBA(img *image.NRGBA, cols *Columns) {
	min := img.Bounds().Min
	for y := 0; y < cols.Height; y++ {
		off := img.PixOffset(min.X, min.Y+y)
		row := img.Pix[off : off+cols.Width*4]
		for x := 0; x < cols.Width; x++ {
			p := row[x*4 : x*4+4]
			if p[0]|p[1]|p[2]|p[3] != 0 {
				cols.Mark(x, y)
			}
		}
	}
}
