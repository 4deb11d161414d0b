package stats

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/orientation"

	shoal "github.com/sowasser/fish-shoaling-model"
)

// hull returns the convex hull of p as a polygon.
// It returns ErrDegenerateHull if all points are collinear.
func hull(p []shoal.Vec2) (*geom.Polygon, error) {
	if collinear(p) {
		return nil, ErrDegenerateHull
	}
	flat := make([]float64, 0, 2*len(p))
	for _, q := range p {
		flat = append(flat, q.X, q.Y)
	}
	poly, ok := xy.ConvexHullFlat(geom.XY, flat).(*geom.Polygon)
	if !ok {
		return nil, ErrDegenerateHull
	}
	return poly, nil
}

// collinear reports whether all points of p lie on a single line,
// including when fewer than three of them are distinct.
func collinear(p []shoal.Vec2) bool {
	if len(p) == 0 {
		return true
	}
	a := geom.Coord{p[0].X, p[0].Y}
	var b geom.Coord
	for _, q := range p[1:] {
		c := geom.Coord{q.X, q.Y}
		switch {
		case b == nil:
			if !c.Equal(geom.XY, a) {
				b = c
			}
		case xy.OrientationIndex(a, b, c) != orientation.Collinear:
			return false
		}
	}
	return true
}
