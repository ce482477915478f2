// Package matching scores spin networks against the reference library.
//
// Every library entry is evaluated on its own, in library order: entries with
// no bonds or too much ambiguity are skipped, a coarse CS filter counts atoms
// close to any query carbon, query tags are bound to atom names first-match
// by distance to the reference coordinates, and the bindings are scored
// against the network's tagged edges.
package matching

import (
	"fmt"
	"math"

	"ineta/internal/library"
	"ineta/internal/network"
	"ineta/internal/peaks"
)

// Unknown marks an edge endpoint that bound to no atom.
const Unknown = "?"

// scoreDecimals is the precision hit and coverage scores are rounded to
// before gating.
const scoreDecimals = 3

// Policy holds the matching tolerances.
type Policy struct {
	// Ambiguity is the largest entry ambiguity score accepted.
	Ambiguity float64
	// NearTol is the CS window, in ppm, of the coarse filter.
	NearTol float64
	// MatchTol is the least number of atoms the coarse filter must count.
	MatchTol int
	// TopTol is the (cs, dq) distance, in ppm, within which a query point
	// binds to a reference coordinate.
	TopTol float64
	// HitTol and CovTol gate the final scores.
	HitTol float64
	CovTol float64
}

// Validate rejects tolerances the matcher cannot use.
func (p Policy) Validate() error {
	values := []struct {
		name  string
		value float64
	}{
		{"ambiguity", p.Ambiguity},
		{"near_tol", p.NearTol},
		{"top_tol", p.TopTol},
		{"hit_tol", p.HitTol},
		{"cov_tol", p.CovTol},
	}
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) || v.value < 0 {
			return fmt.Errorf("matching: %s must be a finite value >= 0, got %v", v.name, v.value)
		}
	}
	if p.MatchTol < 0 {
		return fmt.Errorf("matching: match_tol must be >= 0, got %d", p.MatchTol)
	}
	return nil
}

// EdgeMatch is one tagged query edge and the atom names bound to its ends.
type EdgeMatch struct {
	Edge  string    `json:"edge"`
	Names [2]string `json:"names"`
}

// Result is one library entry accepted for a network.
type Result struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Solvent       string      `json:"solvent"`
	Ambiguity     float64     `json:"ambiguity"`
	HitScore      float64     `json:"hit_score"`
	CoverageScore float64     `json:"coverage_score"`
	Bonds         int         `json:"bonds"`
	Matched       []EdgeMatch `json:"matched"`
	Unmatched     []EdgeMatch `json:"unmatched"`
}

// Matcher evaluates networks against a fixed library. It is safe for
// concurrent use.
type Matcher struct {
	policy  Policy
	entries []candidate
}

type candidate struct {
	entry library.Entry
	means []library.AtomShift
}

// New prepares lib for matching under policy.
func New(lib *library.Library, policy Policy) (*Matcher, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	m := &Matcher{policy: policy}
	if lib == nil {
		return m, nil
	}
	m.entries = make([]candidate, len(lib.Entries))
	for i, entry := range lib.Entries {
		m.entries[i] = candidate{entry: entry, means: entry.MeanShifts()}
	}
	return m, nil
}

// Entries returns the number of library entries the matcher holds.
func (m *Matcher) Entries() int { return len(m.entries) }

// Match returns every entry clearing the gates for one tagged network, in
// library order. No match yields an empty slice.
func (m *Matcher) Match(query network.Tagged) []Result {
	var out []Result
	for _, c := range m.entries {
		if res, ok := m.evaluate(c, query); ok {
			out = append(out, res)
		}
	}
	return out
}

func (m *Matcher) evaluate(c candidate, query network.Tagged) (Result, bool) {
	entry := c.entry
	if len(entry.Networks) == 0 || entry.Ambiguity > m.policy.Ambiguity {
		return Result{}, false
	}
	if coarseCount(query.Points, c.means, m.policy.NearTol) < m.policy.MatchTol {
		return Result{}, false
	}
	if len(query.Tags) == 0 {
		return Result{}, false
	}

	bound := bind(entry.Networks, query, m.policy.TopTol)
	matched, unmatched, hits := score(query.TaggedEdges, bound)

	hit := peaks.RoundTo(float64(hits)/float64(len(entry.Networks)), scoreDecimals)
	coverage := peaks.RoundTo(float64(len(bound))/float64(len(query.Tags)), scoreDecimals)
	if hit < m.policy.HitTol || coverage < m.policy.CovTol {
		return Result{}, false
	}
	return Result{
		ID:            entry.ID,
		Name:          entry.Name,
		Solvent:       entry.Solvent,
		Ambiguity:     entry.Ambiguity,
		HitScore:      hit,
		CoverageScore: coverage,
		Bonds:         len(entry.Networks),
		Matched:       matched,
		Unmatched:     unmatched,
	}, true
}

// coarseCount counts the atoms whose mean shift lies within nearTol of any
// query carbon. Each atom counts once.
func coarseCount(points []peaks.Point, means []library.AtomShift, nearTol float64) int {
	counted := make([]bool, len(means))
	n := 0
	for _, p := range points {
		for i, atom := range means {
			if counted[i] {
				continue
			}
			if math.Abs(p.CS-atom.Mean) <= nearTol {
				counted[i] = true
				n++
			}
		}
	}
	return n
}

// bind assigns atom names to query tags. For each bond end the reference
// coordinates are scanned in order and the first query point, in tag order,
// within topTol binds; scanning then moves to the next end. A later binding
// of the same tag replaces the earlier one.
func bind(bonds []library.Bond, query network.Tagged, topTol float64) map[string]string {
	bound := make(map[string]string)
	for _, bond := range bonds {
		for _, end := range bond {
		coords:
			for _, ref := range end.Coords {
				for i, p := range query.Points {
					if p.Distance(ref) <= topTol {
						bound[query.Tags[i]] = end.Atom
						break coords
					}
				}
			}
		}
	}
	return bound
}

// score splits the tagged edges by whether both ends bound. A matched edge is
// a hit when its ends bound to different atoms. An edge whose first end did
// not bind is reported fully unknown.
func score(edges []network.TagEdge, bound map[string]string) (matched, unmatched []EdgeMatch, hits int) {
	seen := make(map[string]struct{}, len(edges))
	for _, edge := range edges {
		key := edge[0] + "-" + edge[1]
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		first, okFirst := bound[edge[0]]
		second, okSecond := bound[edge[1]]
		switch {
		case okFirst && okSecond:
			matched = append(matched, EdgeMatch{Edge: key, Names: [2]string{first, second}})
			if first != second {
				hits++
			}
		case okFirst:
			unmatched = append(unmatched, EdgeMatch{Edge: key, Names: [2]string{first, Unknown}})
		default:
			unmatched = append(unmatched, EdgeMatch{Edge: key, Names: [2]string{Unknown, Unknown}})
		}
	}
	return matched, unmatched, hits
}
