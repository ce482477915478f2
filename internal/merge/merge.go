// Package merge folds the cluster centroids of several picking levels into
// one deduplicated point set.
//
// The fold is order dependent: the lowest level seeds the set, the remaining
// levels are folded in ascending index order, and each level's centroids are
// visited in ascending (CS, DQ) order. A centroid is inserted when its nearest
// neighbour in the current set is farther than the merge distance, otherwise
// the neighbour is replaced by the average of the two.
package merge

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/kdtree"

	"ineta/internal/peaks"
)

// ErrEmptyLevel reports a level without centroids.
var ErrEmptyLevel = errors.New("merge: level has no points")

// Selection chooses which levels contribute to the merged set.
type Selection string

const (
	// SelectAll merges every level.
	SelectAll Selection = "all"
	// SelectLast keeps only the highest-index level.
	SelectLast Selection = "last"
)

// Stats summarises one fold.
type Stats struct {
	Input    int
	Inserted int
	Averaged int
	Output   int
}

// Levels merges the centroids of every level using distance as the merge
// threshold. The result is sorted by CS, ties broken on DQ.
func Levels(levels peaks.Levels, distance float64, sel Selection) ([]peaks.Point, Stats, error) {
	var stats Stats
	if len(levels) == 0 {
		return nil, stats, peaks.ErrNoLevels
	}
	if math.IsNaN(distance) || math.IsInf(distance, 0) || distance < 0 {
		return nil, stats, fmt.Errorf("merge: invalid distance %v", distance)
	}
	indices := levels.Indices()
	for _, idx := range indices {
		if len(levels[idx]) == 0 {
			return nil, stats, fmt.Errorf("%w: level %d", ErrEmptyLevel, idx)
		}
		stats.Input += len(levels[idx])
	}

	switch sel {
	case SelectLast:
		last := ordered(levels[indices[len(indices)-1]])
		stats.Input = len(last)
		stats.Output = len(last)
		peaks.SortByCS(last)
		return last, stats, nil
	case SelectAll, "":
	default:
		return nil, stats, fmt.Errorf("merge: unsupported selection %q", sel)
	}

	merged := ordered(levels[indices[0]])
	for _, idx := range indices[1:] {
		for _, p := range ordered(levels[idx]) {
			// The tree is rebuilt for every query because the set changes
			// after each insertion or replacement.
			nearest, dist := nearestNeighbour(merged, p)
			if dist > distance {
				merged = append(merged, p)
				stats.Inserted++
				continue
			}
			merged[nearest] = merged[nearest].Midpoint(p)
			stats.Averaged++
		}
	}

	peaks.SortByCS(merged)
	stats.Output = len(merged)
	return merged, stats, nil
}

func ordered(points []peaks.Point) []peaks.Point {
	out := slices.Clone(points)
	peaks.SortByCS(out)
	return out
}

// nearestNeighbour returns the index into set of the point closest to q and
// its Euclidean distance.
func nearestNeighbour(set []peaks.Point, q peaks.Point) (int, float64) {
	nodes := make(indexedPoints, len(set))
	for i, p := range set {
		nodes[i] = indexedPoint{Point: p, index: i}
	}
	tree := kdtree.New(nodes, false)
	got, sq := tree.Nearest(indexedPoint{Point: q, index: -1})
	return got.(indexedPoint).index, math.Sqrt(sq)
}
