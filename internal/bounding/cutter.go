package bounding

import (
	"image"

	"github.com/piwi3910/SpriteCut/internal/geom"
	"github.com/piwi3910/SpriteCut/internal/model"
)

// Options controls corner cutting.
type Options struct {
	MinCutArea  int  // A corner is cut only when its triangle exceeds this area
	DisableCuts bool // Emit the plain rectangle
}

// OptionsFrom picks the extractor options out of the pack settings.
func OptionsFrom(s model.PackSettings) Options {
	return Options{MinCutArea: s.MinCutArea, DisableCuts: s.DisableCuts}
}

// Shape is the extractor's output for one raster.
type Shape struct {
	Bounds   geom.Rect
	Vertices model.Polygon
	Mask     model.ShapeMask
	Scores   [4]int // Best triangle area found per corner, cut or not
}

// Apply copies the shape into a sprite record.
func (sh Shape) Apply(s *model.Sprite) {
	s.Bounds = sh.Bounds
	s.Vertices = sh.Vertices
	s.Mask = sh.Mask
}

// SpriteFromImage scans img and returns a populated sprite record for
// source index src.
func SpriteFromImage(src int, img image.Image, opts Options) model.Sprite {
	s := model.NewSprite(src)
	b := img.Bounds()
	s.SourceWidth, s.SourceHeight = b.Dx(), b.Dy()
	Extract(Scan(img), opts).Apply(&s)
	return s
}

// Extract computes the bounding polygon of the valid pixels described by
// cols. Corners are processed in the order TL, BL, BR, TR because each
// corner's search range starts at the vertex emitted by the previous one.
// The total cost is O(w*w*log h) for a w-pixel-wide raster.
func Extract(cols Columns, opts Options) Shape {
	sh := Shape{Bounds: cols.Bounds()}
	if sh.Bounds.Empty() {
		sh.Vertices = model.Polygon{{}, {}, {}, {}}
		return sh
	}

	for _, c := range model.Corners {
		cs := plan(c, sh.Bounds, sh.Vertices, cols)
		best, p0, p1 := cs.run()
		sh.Scores[c] = max(best, 0)

		if !opts.DisableCuts && best > opts.MinCutArea {
			sh.Vertices = append(sh.Vertices, p0, p1)
			sh.Mask |= c.Bit()
		} else {
			sh.Vertices = append(sh.Vertices, cs.uncut)
		}
	}
	return sh
}

// cornerSearch is one corner's cut search. The corner's "outer" axis
// runs along the edge holding the fixed segment end; the inner
// displacement d moves the other end away from the corner along the
// perpendicular edge.
type cornerSearch struct {
	outerMin, outerMax int // Inclusive range of outer values
	dMax               int // Largest inner displacement
	uncut              geom.Point
	extreme            []int // Column extremes the cut must not pass

	// segment returns the cut for (outer, d) in polygon winding order.
	segment func(outer, d int) (geom.Point, geom.Point)
	// area returns the triangle area removed by (outer, d).
	area func(outer, d int) int
}

// plan builds the search for corner c given the vertices already emitted
// for earlier corners.
func plan(c model.Corner, b geom.Rect, emitted model.Polygon, cols Columns) cornerSearch {
	left, top := b.Min.X, b.Min.Y
	right, bottom := b.Max.X-1, b.Max.Y-1

	switch c {
	case model.TopLeft:
		return cornerSearch{
			outerMin: left + 1, outerMax: right - 1,
			dMax:    bottom - top,
			uncut:   geom.Pt(left, top),
			extreme: cols.Top,
			segment: func(fx, d int) (geom.Point, geom.Point) {
				return geom.Pt(fx, top), geom.Pt(left, top+d)
			},
			area: func(fx, d int) int { return (fx - left) * d },
		}

	case model.BottomLeft:
		last := emitted[len(emitted)-1]
		return cornerSearch{
			outerMin: last.Y + 1, outerMax: bottom - 1,
			dMax:    right - left,
			uncut:   geom.Pt(left, bottom),
			extreme: cols.Bottom,
			segment: func(fy, d int) (geom.Point, geom.Point) {
				return geom.Pt(left, fy), geom.Pt(left+d, bottom)
			},
			area: func(fy, d int) int { return (bottom - fy) * d },
		}

	case model.BottomRight:
		last := emitted[len(emitted)-1]
		return cornerSearch{
			outerMin: last.X + 1, outerMax: right - 1,
			dMax:    bottom - top,
			uncut:   geom.Pt(right, bottom),
			extreme: cols.Bottom,
			segment: func(fx, d int) (geom.Point, geom.Point) {
				return geom.Pt(fx, bottom), geom.Pt(right, bottom-d)
			},
			area: func(fx, d int) int { return (right - fx) * d },
		}

	default: // TopRight
		last := emitted[len(emitted)-1]
		first := emitted[0]
		return cornerSearch{
			outerMin: top + 1, outerMax: last.Y - 1,
			dMax:    right - (first.X + 1),
			uncut:   geom.Pt(right, top),
			extreme: cols.Top,
			segment: func(fy, d int) (geom.Point, geom.Point) {
				return geom.Pt(right, fy), geom.Pt(right-d, top)
			},
			area: func(fy, d int) int { return (fy - top) * d },
		}
	}
}

// run returns the largest cut area and its segment. The area is -1 when
// the outer range is empty.
func (cs cornerSearch) run() (int, geom.Point, geom.Point) {
	bestArea := -1
	var best0, best1 geom.Point
	if cs.dMax < 0 {
		return bestArea, best0, best1
	}

	for outer := cs.outerMin; outer <= cs.outerMax; outer++ {
		d := cs.farthest(outer)
		if a := cs.area(outer, d); a > bestArea {
			bestArea = a
			best0, best1 = cs.segment(outer, d)
		}
	}
	return bestArea, best0, best1
}

// farthest binary searches the largest valid displacement for outer.
// d = 0 runs along the rectangle edge and is always valid; validity is
// monotonic in d because a larger d only grows the removed triangle.
func (cs cornerSearch) farthest(outer int) int {
	lo, hi := 0, cs.dMax
	for hi > lo+1 {
		mid := lo + (hi-lo)/2
		if cs.valid(outer, mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	if hi > lo && cs.valid(outer, hi) {
		return hi
	}
	return lo
}

func (cs cornerSearch) valid(outer, d int) bool {
	p0, p1 := cs.segment(outer, d)
	return cutValid(p0, p1, cs.extreme)
}

// cutValid reports whether every column's extreme pixel between the
// segment's end columns lies inside or on the directed cut p0->p1.
func cutValid(p0, p1 geom.Point, extreme []int) bool {
	x0, x1 := p0.X, p1.X
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		if !geom.LeftOn(p0, p1, geom.Pt(x, extreme[x])) {
			return false
		}
	}
	return true
}
