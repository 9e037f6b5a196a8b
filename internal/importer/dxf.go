package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/SpriteCut/internal/geom"
	"github.com/piwi3910/SpriteCut/internal/model"
)

// point2 is a DXF vertex before it is snapped to the pixel grid.
type point2 struct {
	x, y float64
}

// segment is a line between two vertices, used for chaining disconnected
// LINE entities into closed outlines.
type segment struct {
	start point2
	end   point2
}

// OutlineResult holds the polygons read from a DXF drawing.
type OutlineResult struct {
	Outlines []model.Polygon // Pixel coordinates, y down, largest first
	Errors   []string
	Warnings []string
}

// ImportOutlines reads every closed LWPOLYLINE and every closed chain of
// LINEs from a DXF file, such as one written by the DXF outline export.
// DXF's y-up coordinates are flipped about the topmost vertex of the
// drawing and rounded to whole pixels.
func ImportOutlines(path string) OutlineResult {
	result := OutlineResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines [][]point2
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline, curved := lwPolylinePoints(e)
			if curved {
				result.Warnings = append(result.Warnings, "Bulged LWPOLYLINE read as straight edges")
			}
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point2{e.Start[0], e.Start[1]},
				end:   point2{e.End[0], e.End[1]},
			})

		case *entity.Circle, *entity.Arc:
			result.Warnings = append(result.Warnings, "Skipped curved entity, outlines must be polygons")
		}
	}

	outlines = append(outlines, chainSegments(segments, 0.01)...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	top := math.Inf(-1)
	for _, o := range outlines {
		for _, p := range o {
			top = math.Max(top, p.y)
		}
	}
	for _, o := range outlines {
		result.Outlines = append(result.Outlines, snapOutline(o, top))
	}
	return result
}

// lwPolylinePoints returns the vertices of an LWPOLYLINE and whether any
// of its segments carried a bulge.
func lwPolylinePoints(lw *entity.LwPolyline) ([]point2, bool) {
	curved := false
	pts := make([]point2, 0, len(lw.Vertices))
	for i, v := range lw.Vertices {
		if i < len(lw.Bulges) && math.Abs(lw.Bulges[i]) > 1e-9 {
			curved = true
		}
		pts = append(pts, point2{v[0], v[1]})
	}
	return pts, curved
}

// snapOutline flips y about top and rounds to the pixel grid.
func snapOutline(o []point2, top float64) model.Polygon {
	poly := make(model.Polygon, len(o))
	for i, p := range o {
		poly[i] = geom.Pt(int(math.Round(p.x)), int(math.Round(top-p.y)))
	}
	return poly
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]point2 {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point2

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point2{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		// Only closed chains become outlines
		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}
	return outlines
}

func pointsClose(a, b point2, tolerance float64) bool {
	return math.Hypot(a.x-b.x, a.y-b.y) <= tolerance
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o []point2) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].x*o[j].y - o[j].x*o[i].y
	}
	return math.Abs(area) / 2
}
