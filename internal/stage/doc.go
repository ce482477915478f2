// Package stage defines the names, error markers, and context helpers shared
// by the pipeline steps.
//
// Key responsibilities:
//   - The ordered step names (cluster, find, match, summary) and the step
//     selector grammar used by `ineta run --steps`.
//   - Structured error markers plus the Wrap helper so failures can be
//     classified (missing stage output vs invalid input vs configuration).
//   - Context helpers that stamp run IDs, step names, and network numbers for
//     logging.
package stage
