package matching

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"ineta/internal/network"
)

// NetworkMatches holds the results for one network. Number is 1-based.
type NetworkMatches struct {
	Number  int            `json:"number"`
	Network network.Tagged `json:"network"`
	Results []Result       `json:"results"`
}

// MatchAll matches every network concurrently with at most workers
// goroutines. Output order follows the input order; each network's entries
// are still evaluated sequentially in library order.
func (m *Matcher) MatchAll(ctx context.Context, networks []network.Tagged, workers int) ([]NetworkMatches, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]NetworkMatches, len(networks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, tagged := range networks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = NetworkMatches{
				Number:  i + 1,
				Network: tagged,
				Results: m.Match(tagged),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Matched counts networks with at least one result.
func Matched(all []NetworkMatches) int {
	n := 0
	for _, nm := range all {
		if len(nm.Results) > 0 {
			n++
		}
	}
	return n
}
