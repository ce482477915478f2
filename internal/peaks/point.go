package peaks

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
)

// Axis selects one coordinate of a Point.
type Axis int

const (
	// AxisCS is the 13C chemical shift axis.
	AxisCS Axis = 0
	// AxisDQ is the double-quantum shift axis.
	AxisDQ Axis = 1
)

func (a Axis) String() string {
	switch a {
	case AxisCS:
		return "cs"
	case AxisDQ:
		return "dq"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Point is a picked peak position in ppm.
type Point struct {
	CS float64
	DQ float64
}

// Coord returns the coordinate on the requested axis.
func (p Point) Coord(axis Axis) float64 {
	if axis == AxisDQ {
		return p.DQ
	}
	return p.CS
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.CS-q.CS, p.DQ-q.DQ)
}

// DiagonalOffset is the distance along the 13C axis from the spectral
// diagonal dq = 2*cs.
func (p Point) DiagonalOffset() float64 {
	return math.Abs(p.CS - p.DQ/2)
}

// Midpoint returns the coordinate-wise average of two points.
func (p Point) Midpoint(q Point) Point {
	return Point{CS: (p.CS + q.CS) / 2, DQ: (p.DQ + q.DQ) / 2}
}

// Round rounds both coordinates to the given number of decimals.
func (p Point) Round(decimals int) Point {
	return Point{CS: RoundTo(p.CS, decimals), DQ: RoundTo(p.DQ, decimals)}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.CS, p.DQ)
}

// MarshalJSON encodes the point as a [cs, dq] pair, the layout used by the
// peak picker and the reference library.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.CS, p.DQ})
}

// UnmarshalJSON decodes a [cs, dq] pair.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode point: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decode point: expected [cs, dq], got %d values", len(pair))
	}
	p.CS, p.DQ = pair[0], pair[1]
	return nil
}

// RoundTo rounds v to the given number of decimals, halves away from zero.
func RoundTo(v float64, decimals int) float64 {
	if decimals < 0 {
		return v
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

// Less orders points by CS, then DQ.
func Less(a, b Point) bool {
	if a.CS != b.CS {
		return a.CS < b.CS
	}
	return a.DQ < b.DQ
}

// SortByCS sorts points in place by CS, breaking ties on DQ.
func SortByCS(points []Point) {
	sort.SliceStable(points, func(i, j int) bool { return Less(points[i], points[j]) })
}

// SortedByAxis returns a sorted copy of points ordered on one axis. The sort
// is stable so points sharing a coordinate keep their input order.
func SortedByAxis(points []Point, axis Axis) []Point {
	out := slices.Clone(points)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Coord(axis) < out[j].Coord(axis) })
	return out
}

// Pair is an unordered-in-meaning, ordered-in-storage couple of points.
type Pair struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Swap returns the pair with its endpoints exchanged.
func (p Pair) Swap() Pair {
	return Pair{A: p.B, B: p.A}
}
