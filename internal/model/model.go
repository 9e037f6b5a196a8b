package model

import (
	"github.com/google/uuid"

	"github.com/piwi3910/SpriteCut/internal/geom"
)

// Corner identifies one of the four rectangle corners a cut may remove.
// The numeric order is the order in which corners are processed and in
// which their vertices appear in a sprite polygon.
type Corner int

const (
	TopLeft     Corner = iota // First vertex run, along the top edge going left
	BottomLeft                // Along the left edge going down
	BottomRight               // Along the bottom edge going right
	TopRight                  // Along the right edge going up
)

// Corners lists every corner in processing order.
var Corners = [4]Corner{TopLeft, BottomLeft, BottomRight, TopRight}

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "TopLeft"
	case BottomLeft:
		return "BottomLeft"
	case BottomRight:
		return "BottomRight"
	case TopRight:
		return "TopRight"
	default:
		return "Unknown"
	}
}

// Bit returns the shape-mask bit for the corner.
func (c Corner) Bit() ShapeMask {
	return ShapeMask(1) << uint(c)
}

// ShapeMask records which corners of a sprite have been diagonally cut.
type ShapeMask uint8

const (
	MaskTopLeft     ShapeMask = 1 << 0
	MaskBottomLeft  ShapeMask = 1 << 1
	MaskBottomRight ShapeMask = 1 << 2
	MaskTopRight    ShapeMask = 1 << 3
)

// Has reports whether corner c is cut.
func (m ShapeMask) Has(c Corner) bool {
	return m&c.Bit() != 0
}

// Count returns the number of cut corners.
func (m ShapeMask) Count() int {
	n := 0
	for _, c := range Corners {
		if m.Has(c) {
			n++
		}
	}
	return n
}

// Polygon is a closed vertex list; the last vertex connects back to the first.
type Polygon []geom.Point

// BoundingBox returns the min and max vertex coordinates.
func (p Polygon) BoundingBox() (min, max geom.Point) {
	if len(p) == 0 {
		return geom.Point{}, geom.Point{}
	}
	min, max = p[0], p[0]
	for _, v := range p[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}
	return min, max
}

// Translate shifts all vertices by d.
func (p Polygon) Translate(d geom.Point) Polygon {
	result := make(Polygon, len(p))
	for i, v := range p {
		result[i] = v.Add(d)
	}
	return result
}

// DoubleArea returns twice the absolute area enclosed by the polygon.
func (p Polygon) DoubleArea() int64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	var area int64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += int64(p[i].X)*int64(p[j].Y) - int64(p[j].X)*int64(p[i].Y)
	}
	if area < 0 {
		area = -area
	}
	return area
}

// Sprite is one source image's record as it moves through extraction,
// packing and compositing.
type Sprite struct {
	ID     string `json:"id"`
	Source int    `json:"source"` // Index into the caller-owned source path list

	// Tight pixel box of the valid pixels in sprite-local coordinates.
	// Empty for a fully transparent raster.
	Bounds geom.Rect `json:"bounds"`

	// SourceWidth and SourceHeight are the raster's original dimensions.
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`

	Vertices Polygon   `json:"vertices"` // Local coordinates, fixed winding order
	Mask     ShapeMask `json:"mask"`

	Width  int `json:"width"`  // Padded bounding width, set by Measure
	Height int `json:"height"` // Padded bounding height, set by Measure

	X      int  `json:"x"` // Surface position, -1 until placed
	Y      int  `json:"y"`
	Fitted bool `json:"fitted"`
}

// NewSprite returns an unplaced, empty sprite record for source index src.
func NewSprite(src int) Sprite {
	return Sprite{
		ID:     uuid.New().String()[:8],
		Source: src,
		X:      -1,
		Y:      -1,
	}
}

// Blank reports whether the source contained no valid pixel.
func (s Sprite) Blank() bool {
	return s.Bounds.Empty()
}

// Measure sets Width and Height from the largest vertex coordinate plus pad.
func (s *Sprite) Measure(pad int) {
	w, h := 0, 0
	for _, v := range s.Vertices {
		if v.X > w {
			w = v.X
		}
		if v.Y > h {
			h = v.Y
		}
	}
	s.Width = w + pad
	s.Height = h + pad
}

// Position returns the placed top-left corner.
func (s Sprite) Position() geom.Point {
	return geom.Pt(s.X, s.Y)
}

// Rect returns the padded bounding rectangle at the sprite's position.
func (s Sprite) Rect() geom.Rect {
	return geom.Rect{
		Min: geom.Pt(s.X, s.Y),
		Max: geom.Pt(s.X+s.Width, s.Y+s.Height),
	}
}

// Outline returns the polygon in surface coordinates.
func (s Sprite) Outline() Polygon {
	return s.Vertices.Translate(s.Position())
}

// Contains reports whether the local point p lies inside the polygon or on
// its boundary.
func (s Sprite) Contains(p geom.Point) bool {
	n := len(s.Vertices)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		if !geom.LeftOn(s.Vertices[i], s.Vertices[(i+1)%n], p) {
			return false
		}
	}
	return true
}

// ContainsAbs is Contains for a point in surface coordinates.
func (s Sprite) ContainsAbs(p geom.Point) bool {
	return s.Contains(geom.Pt(p.X-s.X, p.Y-s.Y))
}

// CutEdge is the diagonal segment that replaced a corner; P0->P1 follows
// the polygon winding.
type CutEdge struct {
	Corner Corner
	P0, P1 geom.Point
}

// CutEdges returns the diagonal edges of the sprite in local coordinates.
func (s Sprite) CutEdges() []CutEdge {
	n := len(s.Vertices)
	if n != 4+s.Mask.Count() {
		return nil
	}
	var edges []CutEdge
	idx := 0
	for _, c := range Corners {
		if !s.Mask.Has(c) {
			idx++
			continue
		}
		edges = append(edges, CutEdge{
			Corner: c,
			P0:     s.Vertices[idx],
			P1:     s.Vertices[(idx+1)%n],
		})
		idx += 2
	}
	return edges
}

// PackResult holds the outcome of one packing run.
type PackResult struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Sprites  []Sprite `json:"sprites"`  // All sprites, in packing order
	Unplaced []int    `json:"unplaced"` // Indices into Sprites with Fitted == false
}

// FittedCount returns the number of placed sprites.
func (r PackResult) FittedCount() int {
	return len(r.Sprites) - len(r.Unplaced)
}

// UsedArea returns the summed polygon area of placed sprites.
func (r PackResult) UsedArea() float64 {
	var total int64
	for _, s := range r.Sprites {
		if s.Fitted {
			total += s.Vertices.DoubleArea()
		}
	}
	return float64(total) / 2
}

// BoxArea returns the summed padded bounding-box area of placed sprites.
func (r PackResult) BoxArea() float64 {
	var total float64
	for _, s := range r.Sprites {
		if s.Fitted {
			total += float64(s.Width) * float64(s.Height)
		}
	}
	return total
}

// TotalArea returns the surface area.
func (r PackResult) TotalArea() float64 {
	return float64(r.Width) * float64(r.Height)
}

// Efficiency returns the bounding-box coverage percentage of the surface.
func (r PackResult) Efficiency() float64 {
	ta := r.TotalArea()
	if ta == 0 {
		return 0
	}
	return (r.BoxArea() / ta) * 100.0
}
