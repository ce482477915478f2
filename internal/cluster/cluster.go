// Package cluster collapses picked points into cluster centroids.
//
// Clustering is two-staged and axis ordered: Gather partitions points along
// one axis against an anchor, then Split walks each partition along the other
// axis and cuts the chain wherever consecutive points are too far apart.
// Centroids reduces every final cluster to a single representative point.
package cluster

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"ineta/internal/peaks"
)

var (
	// ErrNoPoints reports an empty point set handed to the clusterer.
	ErrNoPoints = errors.New("cluster: no points")
	// ErrInvalidThreshold reports a negative, NaN, or infinite threshold.
	ErrInvalidThreshold = errors.New("cluster: invalid threshold")
)

// Center selects how a cluster is reduced to one point.
type Center string

const (
	CenterMean   Center = "mean"
	CenterMedian Center = "median"
)

// Valid reports whether c names a supported reduction.
func (c Center) Valid() bool {
	return c == CenterMean || c == CenterMedian
}

// Gather partitions points along axis. Points are visited in axis order; a
// point joins the active cluster when its axis coordinate is strictly closer
// than threshold to the anchor, otherwise it opens a new active cluster.
//
// The anchor is the member with the smallest CS value, whatever axis is being
// gathered. For the CS axis this is simply the first member.
func Gather(points []peaks.Point, threshold float64, axis peaks.Axis) ([][]peaks.Point, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}

	sorted := peaks.SortedByAxis(points, axis)
	clusters := [][]peaks.Point{{sorted[0]}}
	anchor := sorted[0]
	for _, p := range sorted[1:] {
		active := len(clusters) - 1
		if math.Abs(anchor.Coord(axis)-p.Coord(axis)) < threshold {
			clusters[active] = append(clusters[active], p)
			if p.CS < anchor.CS {
				anchor = p
			}
			continue
		}
		clusters = append(clusters, []peaks.Point{p})
		anchor = p
	}
	return clusters, nil
}

// Split chain-clusters every group along axis: after sorting a group, each
// point joins the running cluster when it is strictly closer than threshold
// to the preceding point. Cluster numbering runs across all groups.
func Split(groups [][]peaks.Point, threshold float64, axis peaks.Axis) ([][]peaks.Point, error) {
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}
	var out [][]peaks.Point
	for i, group := range groups {
		if len(group) == 0 {
			return nil, fmt.Errorf("%w: group %d is empty", ErrNoPoints, i)
		}
		sorted := peaks.SortedByAxis(group, axis)
		current := []peaks.Point{sorted[0]}
		for j := 1; j < len(sorted); j++ {
			if math.Abs(sorted[j-1].Coord(axis)-sorted[j].Coord(axis)) < threshold {
				current = append(current, sorted[j])
				continue
			}
			out = append(out, current)
			current = []peaks.Point{sorted[j]}
		}
		out = append(out, current)
	}
	return out, nil
}

// Centroids reduces each cluster to its mean or per-axis median point.
func Centroids(clusters [][]peaks.Point, center Center) ([]peaks.Point, error) {
	if !center.Valid() {
		return nil, fmt.Errorf("cluster: unsupported center %q", center)
	}
	out := make([]peaks.Point, 0, len(clusters))
	for i, members := range clusters {
		if len(members) == 0 {
			return nil, fmt.Errorf("%w: cluster %d is empty", ErrNoPoints, i)
		}
		cs := make([]float64, len(members))
		dq := make([]float64, len(members))
		for j, p := range members {
			cs[j] = p.CS
			dq[j] = p.DQ
		}
		if center == CenterMean {
			out = append(out, peaks.Point{CS: stat.Mean(cs, nil), DQ: stat.Mean(dq, nil)})
			continue
		}
		out = append(out, peaks.Point{CS: median(cs), DQ: median(dq)})
	}
	return out, nil
}

// Level clusters one picking level: gather on CS, split on DQ, then reduce.
func Level(points []peaks.Point, csThreshold, dqThreshold float64, center Center) ([]peaks.Point, error) {
	gathered, err := Gather(points, csThreshold, peaks.AxisCS)
	if err != nil {
		return nil, err
	}
	split, err := Split(gathered, dqThreshold, peaks.AxisDQ)
	if err != nil {
		return nil, err
	}
	return Centroids(split, center)
}

// median averages the two middle values for even-length input.
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func checkThreshold(threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	return nil
}
