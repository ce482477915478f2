// Package preflight provides readiness checks for the inputs and directories
// an ineta run depends on.
//
// These checks run in two contexts:
//   - The "ineta run" command calls RunAll before the first step and stops
//     when a check fails, so a bad input path does not surface halfway
//     through a run.
//   - The "ineta preflight" command prints every result for the operator.
//
// Checks that depend on a step are skipped when that step is not selected.
package preflight
