// Package peaks defines the point and level model shared by every pipeline
// stage and reads picked peak lists produced by the upstream peak picker.
//
// A Point is a (13C shift, double-quantum shift) pair in ppm. Levels group the
// points found by one picking iteration; higher level indices correspond to
// lower intensity thresholds. Points are values: comparisons between them are
// always tolerance based, never exact, except where a stage explicitly needs
// identity (deduplicating edges that reference the same point).
package peaks
