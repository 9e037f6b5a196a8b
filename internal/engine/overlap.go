package engine

import (
	"github.com/piwi3910/SpriteCut/internal/geom"
	"github.com/piwi3910/SpriteCut/internal/model"
)

// NotOverlap reports whether two positioned sprites are known not to
// overlap. Disjoint bounding rectangles always pass. Otherwise the sprites
// pass only when a cut edge of one has every vertex of the other strictly
// on its outer side. Straight edges are never tested, so two polygons that
// are separated some other way are still reported as overlapping.
func NotOverlap(a, b model.Sprite) bool {
	if a.Rect().Disjoint(b.Rect()) {
		return true
	}
	return separatedByCut(a, b) || separatedByCut(b, a)
}

// separatedByCut reports whether some cut edge of b excludes all of a.
func separatedByCut(a, b model.Sprite) bool {
	outline := a.Outline()
	for _, e := range b.CutEdges() {
		p0, p1 := e.P0.Add(b.Position()), e.P1.Add(b.Position())
		if allOutside(p0, p1, outline) {
			return true
		}
	}
	return false
}

func allOutside(p0, p1 geom.Point, pts model.Polygon) bool {
	for _, p := range pts {
		if geom.LeftOn(p0, p1, p) {
			return false
		}
	}
	return true
}
