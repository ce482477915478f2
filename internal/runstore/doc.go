// Package runstore persists pipeline runs and their per-step outputs in a
// SQLite checkpoint database inside the work directory.
//
// Each run is identified by a UUID. Step outputs are stored as JSON payloads
// keyed by run and step name, so a later invocation can resume from the
// latest run without recomputing earlier steps. A file lock on the work
// directory keeps two runs from writing the same checkpoints.
package runstore
