package codec

import (
	"image"
	"image/color"
	"image/draw"
)

// DebugColor is the overlay color for cut polygons.
var DebugColor = color.NRGBA{R: 255, A: 255}

// Plot sets one pixel, ignoring points outside the raster.
func Plot(img draw.Image, x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	img.Set(x, y, c)
}

// DrawLine rasterizes the segment (x0, y0)-(x1, y1) with integer
// Bresenham steps. Both end points are drawn.
func DrawLine(img draw.Image, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy
	for {
		Plot(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
