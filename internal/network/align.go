package network

import (
	"math"

	"ineta/internal/cluster"
	"ineta/internal/peaks"
)

// Tolerances holds the alignment and vertical clustering thresholds, in ppm.
type Tolerances struct {
	// DQT splits points into rows sharing a double-quantum shift.
	DQT float64
	// SumXY bounds |mean(dq) - (cs1 + cs2)| for an aligned pair.
	SumXY float64
	// SDT bounds the difference of the two diagonal offsets.
	SDT float64
	// CST groups horizontally connected points sharing a carbon.
	CST float64
}

// Aligned reports whether two points sharing a double-quantum row satisfy
// both INADEQUATE rules: their mean DQ shift equals the sum of their CS
// shifts, and they sit symmetrically about the diagonal dq = 2*cs. Both
// comparisons are inclusive.
func Aligned(p1, p2 peaks.Point, sumXY, sdt float64) bool {
	meanDQ := (p1.DQ + p2.DQ) / 2
	sumCS := p1.CS + p2.CS
	if math.Abs(meanDQ-sumCS) > sumXY {
		return false
	}
	return math.Abs(p1.DiagonalOffset()-p2.DiagonalOffset()) <= sdt
}

// Align returns every horizontally aligned pair in points. Points are split
// into double-quantum rows by chaining on DQ with tol.DQT; inside each row
// every unordered pair is tested with Aligned.
func Align(points []peaks.Point, tol Tolerances) ([]peaks.Pair, error) {
	if len(points) == 0 {
		return nil, nil
	}
	rows, err := cluster.Split([][]peaks.Point{points}, tol.DQT, peaks.AxisDQ)
	if err != nil {
		return nil, err
	}
	var pairs []peaks.Pair
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		for i := 0; i < len(row)-1; i++ {
			for j := i + 1; j < len(row); j++ {
				if Aligned(row[i], row[j], tol.SumXY, tol.SDT) {
					pairs = append(pairs, peaks.Pair{A: row[i], B: row[j]})
				}
			}
		}
	}
	return pairs, nil
}
