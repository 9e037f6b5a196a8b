package engine

import (
	"sort"

	"github.com/piwi3910/SpriteCut/internal/geom"
	"github.com/piwi3910/SpriteCut/internal/model"
)

// Packer places sprite polygons on a fixed-size surface.
type Packer struct {
	Settings model.PackSettings

	frontier map[geom.Point]struct{}
	placed   []model.Sprite
}

func New(settings model.PackSettings) *Packer {
	return &Packer{Settings: settings}
}

// Pack measures the sprites, sorts them by descending padded height and
// places each one at the leftmost, then topmost, admissible candidate.
// Sprites that cannot be placed are listed in Unplaced. The input slice is
// not modified; the result holds copies in packing order.
func (p *Packer) Pack(sprites []model.Sprite) model.PackResult {
	sorted := p.prepare(sprites)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Height > sorted[j].Height
	})
	return p.packPrepared(sorted)
}

// PackOrdered is Pack without the height sort: sprites are placed in the
// given order.
func (p *Packer) PackOrdered(sprites []model.Sprite) model.PackResult {
	return p.packPrepared(p.prepare(sprites))
}

// prepare copies and measures the sprites and clears their placement.
func (p *Packer) prepare(sprites []model.Sprite) []model.Sprite {
	out := make([]model.Sprite, len(sprites))
	copy(out, sprites)
	for i := range out {
		out[i].Measure(max(p.Settings.Padding, model.DefaultPadding))
		out[i].Fitted = false
		out[i].X, out[i].Y = -1, -1
	}
	return out
}

func (p *Packer) packPrepared(sprites []model.Sprite) model.PackResult {
	p.reset()

	result := model.PackResult{
		Width:   p.Settings.Width,
		Height:  p.Settings.Height,
		Sprites: sprites,
	}
	for i := range sprites {
		if !p.place(&sprites[i]) {
			result.Unplaced = append(result.Unplaced, i)
		}
	}
	return result
}

func (p *Packer) reset() {
	p.frontier = map[geom.Point]struct{}{{}: {}}
	p.placed = nil
}

// Placed returns the sprites placed by the last Pack, in placement order.
func (p *Packer) Placed() []model.Sprite {
	return p.placed
}

// Frontier returns the current candidate anchors in selection order.
func (p *Packer) Frontier() []geom.Point {
	pts := make([]geom.Point, 0, len(p.frontier))
	for pt := range p.frontier {
		pts = append(pts, pt)
	}
	sortPoints(pts)
	return pts
}

// place tries every candidate anchor in order and commits the first that
// fits. Blank sprites are never placed.
func (p *Packer) place(s *model.Sprite) bool {
	if s.Blank() {
		return false
	}

	for _, c := range p.candidates(*s) {
		if !p.CanPlaceAt(c.X, c.Y, *s) {
			continue
		}
		s.X, s.Y = c.X, c.Y
		s.Fitted = true
		p.grow(*s)
		p.placed = append(p.placed, *s)
		return true
	}
	return false
}

// candidates merges the frontier with the nesting anchors for s and sorts
// them by x, then y.
func (p *Packer) candidates(s model.Sprite) []geom.Point {
	seen := make(map[geom.Point]struct{}, len(p.frontier))
	pts := make([]geom.Point, 0, len(p.frontier))
	for pt := range p.frontier {
		seen[pt] = struct{}{}
		pts = append(pts, pt)
	}
	for _, o := range p.placed {
		for _, pt := range nestingAnchors(s, o) {
			if _, ok := seen[pt]; !ok {
				seen[pt] = struct{}{}
				pts = append(pts, pt)
			}
		}
	}
	sortPoints(pts)
	return pts
}

// CanPlaceAt reports whether s fits inside the surface at (x, y) without
// overlapping any placed sprite.
func (p *Packer) CanPlaceAt(x, y int, s model.Sprite) bool {
	if x < 0 || y < 0 || x+s.Width > p.Settings.Width || y+s.Height > p.Settings.Height {
		return false
	}
	s.X, s.Y = x, y
	for _, o := range p.placed {
		if !NotOverlap(s, o) {
			return false
		}
	}
	return true
}

// grow extends the frontier after s has been placed. The rays are cast
// against sprites placed before s.
func (p *Packer) grow(s model.Sprite) {
	right, bottom := s.X+s.Width, s.Y+s.Height

	p.add(geom.Pt(right, s.Y))
	p.add(geom.Pt(s.X, bottom))

	// Ray up from the right edge to the lowest bottom edge above it.
	maxY := -1
	for _, o := range p.placed {
		if o.X < right && right < o.X+o.Width && o.Y+o.Height < s.Y {
			maxY = max(maxY, o.Y+o.Height)
		}
	}
	if maxY >= 0 {
		p.add(geom.Pt(right, maxY))
	}

	// Ray left from the bottom edge to the nearest right edge.
	maxX := -1
	for _, o := range p.placed {
		if o.Y < bottom && bottom < o.Y+o.Height && o.X+o.Width < s.X {
			maxX = max(maxX, o.X+o.Width)
		}
	}
	if maxX >= 0 {
		p.add(geom.Pt(maxX, bottom))
	}

	for _, o := range p.placed {
		// Bottom edges of sprites to the right, projected onto our right edge.
		if under := o.Y + o.Height; under > s.Y && under < bottom && o.X > right {
			p.add(geom.Pt(right, under))
		}
		// Right edges of sprites below, projected onto our bottom edge.
		if edge := o.X + o.Width; edge > s.X && edge < right && o.Y > bottom {
			p.add(geom.Pt(edge, bottom))
		}
	}
}

func (p *Packer) add(pt geom.Point) {
	p.frontier[pt] = struct{}{}
}

// nestingAnchors returns the anchors at which the bounding box of s just
// clears one of the diagonal cuts of the placed sprite o.
func nestingAnchors(s, o model.Sprite) []geom.Point {
	var pts []geom.Point
	w, h := s.Width, s.Height
	for _, e := range o.CutEdges() {
		p0, p1 := e.P0.Add(o.Position()), e.P1.Add(o.Position())

		switch e.Corner {
		case model.TopLeft:
			// Bottom-right corner of s left of the cut.
			if h < p1.Y-p0.Y {
				xline := p0.X - (p0.X-p1.X)*h/(p1.Y-p0.Y)
				if x := xline - 1 - w; x >= 0 {
					pts = append(pts, geom.Pt(x, p0.Y))
				}
			}
		case model.BottomLeft:
			// Top-right corner of s below the cut.
			if w < p1.X-p0.X {
				y := p0.Y + (p1.Y-p0.Y)*w/(p1.X-p0.X) + 1
				pts = append(pts, geom.Pt(p0.X, y))
			}
		case model.BottomRight:
			// Top-left corner of s right of the cut.
			if h < p0.Y-p1.Y {
				x := p0.X + h*(p1.X-p0.X)/(p0.Y-p1.Y) + 1
				pts = append(pts, geom.Pt(x, p0.Y-h))
			}
		case model.TopRight:
			// Bottom-left corner of s right of the cut.
			if h < p0.Y-p1.Y {
				x := p1.X + h*(p0.X-p1.X)/(p0.Y-p1.Y) + 1
				pts = append(pts, geom.Pt(x, p1.Y))
			}
		}
	}
	return pts
}

func sortPoints(pts []geom.Point) {
	sort.Slice(pts, func(i, j int) bool { return pts[i].Less(pts[j]) })
}
