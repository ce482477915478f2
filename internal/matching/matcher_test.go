package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ineta/internal/library"
	"ineta/internal/network"
	"ineta/internal/peaks"
)

func generous() Policy {
	return Policy{Ambiguity: 1, NearTol: 0.5, MatchTol: 1, TopTol: 0.5, HitTol: 0.1, CovTol: 0.1}
}

// chainEntry describes C1-C2-C3 with single shifts 10, 35, 60.
func chainEntry(t *testing.T, id string) library.Entry {
	t.Helper()
	entry, err := library.BuildEntry(id, "propane_chain", "3.1", "D2O",
		map[string][]float64{"C1": {10}, "C2": {35}, "C3": {60}},
		[][2]string{{"C1", "C2"}, {"C2", "C3"}})
	require.NoError(t, err)
	return entry
}

// chainNetwork builds the network the chain entry would produce in a
// spectrum, through the real alignment and graph stages.
func chainNetwork(t *testing.T) network.Tagged {
	t.Helper()
	points := []peaks.Point{{CS: 10, DQ: 45}, {CS: 35, DQ: 45}, {CS: 35, DQ: 95}, {CS: 60, DQ: 95}}
	pairs, err := network.Align(points, network.Tolerances{DQT: 1, SumXY: 0.5, SDT: 0.5})
	require.NoError(t, err)
	res, err := network.Build(pairs, 0.5)
	require.NoError(t, err)
	require.Len(t, res.Networks, 1)
	return network.Tag(res.Networks[0], res.Pairs)
}

func newMatcher(t *testing.T, policy Policy, entries ...library.Entry) *Matcher {
	t.Helper()
	m, err := New(&library.Library{Entries: entries}, policy)
	require.NoError(t, err)
	return m
}

func TestSelfMatchScoresOne(t *testing.T) {
	query := chainNetwork(t)
	m := newMatcher(t, generous(), chainEntry(t, "1::a::chain::3.1::D2O"))

	results := m.Match(query)
	require.Len(t, results, 1)
	got := results[0]
	require.Equal(t, 1.0, got.HitScore)
	require.Equal(t, 1.0, got.CoverageScore)
	require.Equal(t, 2, got.Bonds)
	require.Empty(t, got.Unmatched)

	// The vertical edge binds both ends to C2: matched, not a hit.
	require.Equal(t, []EdgeMatch{
		{Edge: "CX3-CX2", Names: [2]string{"C2", "C2"}},
		{Edge: "CX1-CX2", Names: [2]string{"C1", "C2"}},
		{Edge: "CX3-CX4", Names: [2]string{"C2", "C3"}},
	}, got.Matched)
}

func TestAmbiguityGate(t *testing.T) {
	query := chainNetwork(t)
	entry := chainEntry(t, "1::a::chain::3.1::D2O")
	entry.Ambiguity = 0.9

	policy := generous()
	policy.Ambiguity = 0.5
	require.Empty(t, newMatcher(t, policy, entry).Match(query))

	policy.Ambiguity = 0.9
	require.Len(t, newMatcher(t, policy, entry).Match(query), 1)
}

func TestEntryWithoutBondsIsSkipped(t *testing.T) {
	entry := chainEntry(t, "1::a::chain::3.1::D2O")
	entry.Networks = nil
	require.Empty(t, newMatcher(t, generous(), entry).Match(chainNetwork(t)))
}

func TestCoarseFilterCountsEachAtomOnce(t *testing.T) {
	means := []library.AtomShift{{Atom: "C1", Mean: 10}, {Atom: "C2", Mean: 10.2}, {Atom: "C3", Mean: 80}}
	points := []peaks.Point{{CS: 10}, {CS: 10.1}, {CS: 10.05}}
	require.Equal(t, 2, coarseCount(points, means, 0.3))

	policy := generous()
	policy.MatchTol = 4
	require.Empty(t, newMatcher(t, policy, chainEntry(t, "x")).Match(chainNetwork(t)))
}

func TestBindIsFirstMatchNotBestMatch(t *testing.T) {
	query := network.Tagged{
		Points:      []peaks.Point{{CS: 10, DQ: 45}, {CS: 10.2, DQ: 45}},
		Tags:        []string{"CX1", "CX2"},
		TaggedEdges: []network.TagEdge{{"CX1", "CX2"}},
	}
	bonds := []library.Bond{{
		{Atom: "C1", Coords: []peaks.Point{{CS: 10.19, DQ: 45}}},
		{Atom: "C2", Coords: []peaks.Point{{CS: 99, DQ: 0}}},
	}}
	bound := bind(bonds, query, 0.5)
	require.Equal(t, map[string]string{"CX1": "C1"}, bound)
}

func TestBindLaterEndOverwrites(t *testing.T) {
	query := network.Tagged{
		Points: []peaks.Point{{CS: 10, DQ: 45}},
		Tags:   []string{"CX1"},
	}
	bonds := []library.Bond{
		{{Atom: "C1", Coords: []peaks.Point{{CS: 10, DQ: 45}}}, {Atom: "C2"}},
		{{Atom: "C5", Coords: []peaks.Point{{CS: 10.1, DQ: 45}}}, {Atom: "C6"}},
	}
	require.Equal(t, map[string]string{"CX1": "C5"}, bind(bonds, query, 0.5))
}

func TestScoreUnmatchedEndpoints(t *testing.T) {
	edges := []network.TagEdge{{"CX1", "CX2"}, {"CX2", "CX3"}, {"CX3", "CX1"}, {"CX1", "CX2"}}
	bound := map[string]string{"CX2": "C4", "CX3": "C4"}
	matched, unmatched, hits := score(edges, bound)
	require.Equal(t, []EdgeMatch{{Edge: "CX2-CX3", Names: [2]string{"C4", "C4"}}}, matched)
	require.Zero(t, hits)
	// A bound second end is still reported unknown when the first is unbound.
	require.Equal(t, []EdgeMatch{
		{Edge: "CX1-CX2", Names: [2]string{Unknown, Unknown}},
		{Edge: "CX3-CX1", Names: [2]string{"C4", Unknown}},
	}, unmatched)
}

func TestScoresAreRoundedBeforeGates(t *testing.T) {
	// One hit out of three bonds rounds to 0.333.
	entry := chainEntry(t, "x")
	entry.Networks = []library.Bond{
		entry.Networks[0],
		{{Atom: "C8", Coords: []peaks.Point{{CS: 150, DQ: 300}}}, {Atom: "C9"}},
		{{Atom: "C7", Coords: []peaks.Point{{CS: 170, DQ: 300}}}, {Atom: "C9"}},
	}
	query := chainNetwork(t)

	policy := generous()
	policy.HitTol = 0.333
	results := newMatcher(t, policy, entry).Match(query)
	require.Len(t, results, 1)
	require.Equal(t, 0.333, results[0].HitScore)
	require.Equal(t, 0.5, results[0].CoverageScore)

	policy.HitTol = 0.3334
	require.Empty(t, newMatcher(t, policy, entry).Match(query))
}

func TestMatchKeepsLibraryOrder(t *testing.T) {
	m := newMatcher(t, generous(), chainEntry(t, "b"), chainEntry(t, "a"))
	results := m.Match(chainNetwork(t))
	require.Len(t, results, 2)
	require.Equal(t, "b", results[0].ID)
	require.Equal(t, "a", results[1].ID)
}

func TestMatchAllPreservesNetworkOrder(t *testing.T) {
	query := chainNetwork(t)
	far := network.Tag([]peaks.Point{{CS: 150, DQ: 300}, {CS: 155, DQ: 300}}, nil)
	m := newMatcher(t, generous(), chainEntry(t, "a"))

	networks := []network.Tagged{query, far, query, far, query}
	all, err := m.MatchAll(context.Background(), networks, 2)
	require.NoError(t, err)
	require.Len(t, all, len(networks))
	for i, nm := range all {
		require.Equal(t, i+1, nm.Number)
		require.Equal(t, m.Match(networks[i]), nm.Results)
	}
	require.Equal(t, 3, Matched(all))
}

func TestMatchAllHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := newMatcher(t, generous(), chainEntry(t, "a"))
	_, err := m.MatchAll(ctx, []network.Tagged{chainNetwork(t)}, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, generous().Validate())
	bad := generous()
	bad.TopTol = -1
	require.Error(t, bad.Validate())
	bad = generous()
	bad.MatchTol = -2
	require.Error(t, bad.Validate())
	_, err := New(nil, bad)
	require.Error(t, err)
}
