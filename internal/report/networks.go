package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"ineta/internal/peaks"
)

// FormatPoint renders p as "(cs, dq)" with the given number of decimals.
func FormatPoint(p peaks.Point, precision int) string {
	p = p.Round(precision)
	return "(" + strconv.FormatFloat(p.CS, 'f', precision, 64) + ", " +
		strconv.FormatFloat(p.DQ, 'f', precision, 64) + ")"
}

// FormatNetwork joins the points of one network with commas.
func FormatNetwork(points []peaks.Point, precision int) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = FormatPoint(p, precision)
	}
	return strings.Join(parts, ",")
}

// WriteNetworks writes one "NetworkN<TAB>(cs, dq),..." line per network,
// numbered from 1.
func WriteNetworks(w io.Writer, networks [][]peaks.Point, precision int) error {
	for i, points := range networks {
		if _, err := fmt.Fprintf(w, "Network%d\t%s\n", i+1, FormatNetwork(points, precision)); err != nil {
			return err
		}
	}
	return nil
}
