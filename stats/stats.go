// Package stats computes summary statistics of a shoal configuration.
//
// All statistics are computed from scratch on a snapshot of fish positions
// and velocities. Distances are planar: the periodic boundaries of the
// simulation space are ignored here.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	shoal "github.com/sowasser/fish-shoaling-model"
)

var (
	// ErrInsufficientPopulation is returned when there are too few fish
	// for a statistic to be defined.
	ErrInsufficientPopulation = errors.New("stats: insufficient population")

	// ErrDegenerateHull is returned when all fish are collinear.
	ErrDegenerateHull = errors.New("stats: degenerate convex hull")
)

// NearestNeighbors is the number of neighbors averaged by NND.
const NearestNeighbors = 5

// madScale makes the median absolute deviation a consistent estimator
// of the standard deviation for normally distributed data.
var madScale = distuv.UnitNormal.Quantile(0.75)

// A Record holds one value per statistic.
type Record struct {
	Polarization float64 // median absolute deviation of headings (rad)
	NND          float64 // mean distance to the nearest neighbors
	Area         float64 // area of the convex hull
	Centroid     float64 // mean distance to the centroid
}

// Names lists the statistics of a Record in column order.
var Names = []string{"polarization", "nnd", "area", "centroid"}

// Values returns the statistics of r in the order of Names.
func (r Record) Values() []float64 {
	return []float64{r.Polarization, r.NND, r.Area, r.Centroid}
}

// Of computes all statistics for the current state of s.
func Of(s *shoal.Simulation) (Record, error) {
	return Compute(s.Positions(), s.Velocities())
}

// Compute computes all statistics for the given positions and velocities.
func Compute(pos, vel []shoal.Vec2) (Record, error) {
	var r Record
	var err error
	if r.Polarization, err = Polarization(vel); err != nil {
		return r, err
	}
	if r.NND, err = NND(pos); err != nil {
		return r, err
	}
	if r.Area, err = Area(pos); err != nil {
		return r, err
	}
	if r.Centroid, err = CentroidDist(pos); err != nil {
		return r, err
	}
	return r, nil
}

// Polarization returns the scaled median absolute deviation of the headings
// about their median heading. Lower values mean a more aligned group.
// Headings are in (-pi, pi] and are not corrected for wraparound, so a group
// heading close to ±pi gets an inflated value.
func Polarization(vel []shoal.Vec2) (float64, error) {
	if len(vel) == 0 {
		return 0, fmt.Errorf("%w: polarization of an empty shoal", ErrInsufficientPopulation)
	}
	θ := make([]float64, len(vel))
	for i, v := range vel {
		θ[i] = math.Atan2(v.Y, v.X)
	}
	m := median(θ)
	dev := make([]float64, len(θ))
	for i, x := range θ {
		dev[i] = math.Abs(x - m)
	}
	return median(dev) / madScale, nil
}

// NND returns the distance from each fish to its NearestNeighbors closest
// fish, averaged over neighbors then over fish.
func NND(pos []shoal.Vec2) (float64, error) {
	if len(pos) < NearestNeighbors+1 {
		return 0, fmt.Errorf("%w: nearest neighbor distance needs %d fish, got %d",
			ErrInsufficientPopulation, NearestNeighbors+1, len(pos))
	}
	pts := make(kdtree.Points, len(pos))
	for i, p := range pos {
		pts[i] = kdtree.Point{p.X, p.Y}
	}
	tree := kdtree.New(pts, false)

	means := make([]float64, len(pos))
	d := make([]float64, 0, NearestNeighbors+1)
	for i, p := range pos {
		// the closest point is the fish itself
		keep := kdtree.NewNKeeper(NearestNeighbors + 1)
		tree.NearestSet(keep, kdtree.Point{p.X, p.Y})
		d = d[:0]
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			d = append(d, math.Sqrt(c.Dist))
		}
		sort.Float64s(d)
		means[i] = stat.Mean(d[1:], nil)
	}
	return stat.Mean(means, nil), nil
}

// Area returns the area of the convex hull of the positions.
func Area(pos []shoal.Vec2) (float64, error) {
	if len(pos) < 3 {
		return 0, fmt.Errorf("%w: convex hull needs 3 fish, got %d", ErrInsufficientPopulation, len(pos))
	}
	h, err := hull(pos)
	if err != nil {
		return 0, err
	}
	return math.Abs(h.Area()), nil
}

// CentroidDist returns the mean distance of the fish to their centroid.
func CentroidDist(pos []shoal.Vec2) (float64, error) {
	if len(pos) == 0 {
		return 0, fmt.Errorf("%w: centroid of an empty shoal", ErrInsufficientPopulation)
	}
	x := make([]float64, len(pos))
	y := make([]float64, len(pos))
	for i, p := range pos {
		x[i], y[i] = p.X, p.Y
	}
	c := shoal.Vec2{X: stat.Mean(x, nil), Y: stat.Mean(y, nil)}
	d := make([]float64, len(pos))
	for i, p := range pos {
		d[i] = p.Sub(c).Norm()
	}
	return stat.Mean(d, nil), nil
}

// median returns the median of x, averaging the two middle values
// when len(x) is even. x is not modified.
func median(x []float64) float64 {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
