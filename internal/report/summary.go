package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ineta/internal/matching"
)

// Summary holds the counts reported for a run.
type Summary struct {
	RunID          string    `json:"run_id"`
	GeneratedAt    time.Time `json:"generated_at"`
	Picked         int       `json:"picked"`
	Clustered      int       `json:"clustered"`
	Merged         int       `json:"merged"`
	Networks       int       `json:"networks"`
	Matched        int       `json:"matched"`
	LibraryEntries int       `json:"library_entries"`
	LibrarySkipped int       `json:"library_skipped"`
	// Unmatched lists the 1-based numbers of networks with no results.
	Unmatched []int `json:"unmatched,omitempty"`
}

// UnmatchedNetworks returns the numbers of networks without results.
func UnmatchedNetworks(all []matching.NetworkMatches) []int {
	var out []int
	for _, nm := range all {
		if len(nm.Results) == 0 {
			out = append(out, nm.Number)
		}
	}
	return out
}

// WriteSummary renders s as a short human-readable report.
func WriteSummary(w io.Writer, s Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary for ineta run %s on %s:\n", s.RunID, s.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "# of picked peaks in all steps: %d\n", s.Picked)
	fmt.Fprintf(&b, "# of peaks after clustering: %d\n", s.Clustered)
	fmt.Fprintf(&b, "# of peaks retained after merging steps: %d\n", s.Merged)
	fmt.Fprintf(&b, "# of networks found: %d\n", s.Networks)
	fmt.Fprintf(&b, "# of matches found: %d\n", s.Matched)
	fmt.Fprintf(&b, "# of library entries used: %d (skipped %d)\n", s.LibraryEntries, s.LibrarySkipped)
	if len(s.Unmatched) > 0 {
		numbers := make([]string, len(s.Unmatched))
		for i, n := range s.Unmatched {
			numbers[i] = strconv.Itoa(n)
		}
		fmt.Fprintf(&b, "no matches for networks: %s\n", strings.Join(numbers, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
