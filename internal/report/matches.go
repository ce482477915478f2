package report

import (
	"io"
	"strconv"
	"strings"

	"ineta/internal/matching"
)

// MatchesHeader is the first line of the match table.
const MatchesHeader = "#NetworkNum\tID\tMatchName\tSolvent\tAmbiguityScore\tHitscore\tCoverageScore\tMatchedConnections\tUnmatchedConnections"

// EntryID extracts the database entry id from a composite library key
// ("n::entryID::name::version::solvent"). Keys without separators are
// returned unchanged.
func EntryID(key string) string {
	parts := strings.Split(key, "::")
	if len(parts) >= 2 && parts[1] != "" {
		return parts[1]
	}
	return key
}

// FormatEdges renders edge bindings as "CX1-CX2->C1-C2," with a trailing
// comma after every edge.
func FormatEdges(edges []matching.EdgeMatch) string {
	var b strings.Builder
	for _, e := range edges {
		b.WriteString(e.Edge)
		b.WriteString("->")
		b.WriteString(e.Names[0])
		b.WriteByte('-')
		b.WriteString(e.Names[1])
		b.WriteByte(',')
	}
	return b.String()
}

// FormatScore renders a score the way the match table stores it.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteMatches writes the header and one row per accepted library entry.
// Networks without results contribute no rows.
func WriteMatches(w io.Writer, all []matching.NetworkMatches) error {
	if _, err := io.WriteString(w, MatchesHeader+"\n"); err != nil {
		return err
	}
	for _, nm := range all {
		for _, r := range nm.Results {
			row := []string{
				strconv.Itoa(nm.Number),
				EntryID(r.ID),
				r.Name,
				r.Solvent,
				FormatScore(r.Ambiguity),
				FormatScore(r.HitScore),
				FormatScore(r.CoverageScore),
				FormatEdges(r.Matched),
				FormatEdges(r.Unmatched),
			}
			if _, err := io.WriteString(w, strings.Join(row, "\t")+"\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
