package merge

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"ineta/internal/peaks"
)

// indexedPoint is a kdtree.Comparable that remembers its slot in the merged
// set so the nearest neighbour can be replaced in place.
type indexedPoint struct {
	peaks.Point
	index int
}

func (p indexedPoint) coord(d kdtree.Dim) float64 {
	if d == 1 {
		return p.DQ
	}
	return p.CS
}

// Compare returns the signed distance of p from the plane through c
// perpendicular to dimension d.
func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(indexedPoint)
	return p.coord(d) - q.coord(d)
}

func (p indexedPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance, as kdtree expects.
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(indexedPoint)
	dcs := p.CS - q.CS
	ddq := p.DQ - q.DQ
	return dcs*dcs + ddq*ddq
}

type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable { return p[i] }

func (p indexedPoints) Len() int { return len(p) }

func (p indexedPoints) Pivot(d kdtree.Dim) int {
	return plane{points: p, dim: d}.Pivot()
}

func (p indexedPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane sorts a point slice along one dimension for median partitioning.
type plane struct {
	points indexedPoints
	dim    kdtree.Dim
}

func (p plane) Len() int { return len(p.points) }

func (p plane) Less(i, j int) bool {
	return p.points[i].coord(p.dim) < p.points[j].coord(p.dim)
}

func (p plane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}

func (p plane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
