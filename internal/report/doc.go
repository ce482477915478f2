// Package report renders pipeline results as the plain-text files written to
// the output directory: the network list, the tab-separated match table, and
// the run summary.
package report
