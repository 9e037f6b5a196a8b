// Package geom holds the integer geometry shared by the bounding-polygon
// extractor, the packer and the compositor.
package geom

import "fmt"

// Point is an integer coordinate in sprite-local or surface space.
// The y axis grows downward.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Less orders points by x, then y.
func (p Point) Less(q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Cross returns twice the signed area of the triangle a, b, p.
// It only multiplies and subtracts, so degenerate input never fails.
func Cross(a, b, p Point) int64 {
	return int64(b.X-a.X)*int64(p.Y-a.Y) - int64(p.X-a.X)*int64(b.Y-a.Y)
}

// Orientation reports on which side of the directed segment a->b the
// point p lies: -1 inside (left in y-down drawing), 1 outside, 0 collinear.
func Orientation(a, b, p Point) int {
	c := Cross(a, b, p)
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	default:
		return 0
	}
}

// Left reports whether p lies strictly on the inner side of a->b.
func Left(a, b, p Point) bool {
	return Cross(a, b, p) < 0
}

// LeftOn reports whether p lies on the inner side of a->b or on the line.
func LeftOn(a, b, p Point) bool {
	return Cross(a, b, p) <= 0
}

// Rect is an axis-aligned rectangle with inclusive Min and exclusive Max.
type Rect struct {
	Min, Max Point
}

// Dx returns the rectangle's width.
func (r Rect) Dx() int { return r.Max.X - r.Min.X }

// Dy returns the rectangle's height.
func (r Rect) Dy() int { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle contains no points.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Disjoint reports whether r and s share no interior area. Touching edges
// count as disjoint.
func (r Rect) Disjoint(s Rect) bool {
	return r.Max.X <= s.Min.X || r.Max.Y <= s.Min.Y ||
		s.Max.X <= r.Min.X || s.Max.Y <= r.Min.Y
}
