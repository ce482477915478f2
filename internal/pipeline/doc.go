// Package pipeline runs the ineta steps in order: cluster the picked peaks of
// every level, find spin networks in the merged centroids, match the networks
// against the reference library, and write the summary reports.
//
// Each step is a pure function of the previous step's output plus the
// configuration. The Runner persists every output to the checkpoint store so
// a later invocation can start from any step; a step whose input is missing
// fails with stage.ErrMissingStage.
package pipeline
