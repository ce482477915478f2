package network

import (
	"fmt"

	"ineta/internal/peaks"
)

// TagEdge is an edge expressed with network tags instead of coordinates.
type TagEdge [2]string

// Tagged is one network prepared for matching.
type Tagged struct {
	Points      []peaks.Point `json:"points"`
	Tags        []string      `json:"tags"`
	Edges       []peaks.Pair  `json:"edges"`
	TaggedEdges []TagEdge     `json:"tagged_edges"`
}

// TagOf returns the tag of p, or "" when p is not in the network.
func (t Tagged) TagOf(p peaks.Point) string {
	for i, q := range t.Points {
		if q == p {
			return t.Tags[i]
		}
	}
	return ""
}

// Tag labels the points of network CX1..CXn in order and keeps the pairs
// whose endpoints both lie inside it. Duplicate pairs are dropped, first
// occurrence wins.
func Tag(network []peaks.Point, pairs []peaks.Pair) Tagged {
	tagged := Tagged{
		Points: network,
		Tags:   make([]string, len(network)),
	}
	tags := make(map[peaks.Point]string, len(network))
	for i, p := range network {
		tag := fmt.Sprintf("CX%d", i+1)
		tagged.Tags[i] = tag
		if _, ok := tags[p]; !ok {
			tags[p] = tag
		}
	}

	seen := make(map[peaks.Pair]struct{})
	for _, pair := range pairs {
		ta, okA := tags[pair.A]
		tb, okB := tags[pair.B]
		if !okA || !okB {
			continue
		}
		if _, dup := seen[pair]; dup {
			continue
		}
		seen[pair] = struct{}{}
		tagged.Edges = append(tagged.Edges, pair)
		tagged.TaggedEdges = append(tagged.TaggedEdges, TagEdge{ta, tb})
	}
	return tagged
}

// TagAll prepares every network against the shared pair list.
func TagAll(networks [][]peaks.Point, pairs []peaks.Pair) []Tagged {
	out := make([]Tagged, len(networks))
	for i, network := range networks {
		out[i] = Tag(network, pairs)
	}
	return out
}
