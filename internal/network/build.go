package network

import (
	"slices"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"ineta/internal/cluster"
	"ineta/internal/peaks"
)

// Result is the output of the network builder.
type Result struct {
	// Networks are the connected components of the alignment graph. Each
	// network is ordered by (CS, DQ) and networks are ordered by their first
	// point.
	Networks [][]peaks.Point `json:"networks"`
	// Pairs lists every vertical combination followed by every aligned pair.
	// It is not deduplicated; tagging consumes it verbatim.
	Pairs []peaks.Pair `json:"pairs"`
	// Vertical holds the CS clusters of horizontally connected points.
	Vertical [][]peaks.Point `json:"vertical"`
}

// Build assembles the alignment graph from aligned pairs and extracts its
// connected components. Horizontally connected points are gathered on CS with
// cst; every vertical cluster of two or more points is expanded into a clique.
func Build(aligned []peaks.Pair, cst float64) (Result, error) {
	var res Result
	horizontal := horizontalPoints(aligned)
	if len(horizontal) == 0 {
		return res, nil
	}
	vertical, err := cluster.Gather(horizontal, cst, peaks.AxisCS)
	if err != nil {
		return res, err
	}
	res.Vertical = vertical

	for _, members := range vertical {
		if len(members) < 2 {
			continue
		}
		for i := 0; i < len(members)-1; i++ {
			for j := i + 1; j < len(members); j++ {
				res.Pairs = append(res.Pairs, peaks.Pair{A: members[i], B: members[j]})
			}
		}
	}
	res.Pairs = append(res.Pairs, aligned...)

	vertices := newVertexIndex(horizontal)
	g := simple.NewUndirectedGraph()
	for id := range vertices.points {
		g.AddNode(simple.Node(id))
	}
	for _, pair := range res.Pairs {
		a, b := vertices.id(pair.A), vertices.id(pair.B)
		if a == b {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
	}

	components := topo.ConnectedComponents(g)
	ids := make([][]int, 0, len(components))
	for _, comp := range components {
		members := make([]int, 0, len(comp))
		for _, node := range comp {
			members = append(members, int(node.ID()))
		}
		sort.Ints(members)
		ids = append(ids, members)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i][0] < ids[j][0] })

	res.Networks = make([][]peaks.Point, 0, len(ids))
	for _, members := range ids {
		network := make([]peaks.Point, len(members))
		for i, id := range members {
			network[i] = vertices.points[id]
		}
		res.Networks = append(res.Networks, network)
	}
	return res, nil
}

// WithSingletons returns networks extended with a one-point network for every
// point in all that belongs to no network. The result is reordered by first
// point.
func WithSingletons(networks [][]peaks.Point, all []peaks.Point) [][]peaks.Point {
	seen := make(map[peaks.Point]struct{})
	for _, network := range networks {
		for _, p := range network {
			seen[p] = struct{}{}
		}
	}
	out := slices.Clone(networks)
	for _, p := range all {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, []peaks.Point{p})
	}
	sort.SliceStable(out, func(i, j int) bool { return peaks.Less(out[i][0], out[j][0]) })
	return out
}

// horizontalPoints lists each endpoint of the aligned pairs once: all first
// endpoints, then all second endpoints.
func horizontalPoints(aligned []peaks.Pair) []peaks.Point {
	seen := make(map[peaks.Point]struct{}, 2*len(aligned))
	out := make([]peaks.Point, 0, 2*len(aligned))
	add := func(p peaks.Point) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, pair := range aligned {
		add(pair.A)
	}
	for _, pair := range aligned {
		add(pair.B)
	}
	return out
}

// vertexIndex assigns graph ids in (CS, DQ) order so component extraction is
// reproducible.
type vertexIndex struct {
	points []peaks.Point
	ids    map[peaks.Point]int
}

func newVertexIndex(points []peaks.Point) vertexIndex {
	sorted := slices.Clone(points)
	peaks.SortByCS(sorted)
	idx := vertexIndex{points: sorted, ids: make(map[peaks.Point]int, len(sorted))}
	for i, p := range sorted {
		idx.ids[p] = i
	}
	return idx
}

func (v vertexIndex) id(p peaks.Point) int {
	return v.ids[p]
}
