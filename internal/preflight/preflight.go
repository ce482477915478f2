package preflight

import (
	"slices"

	"ineta/internal/config"
	"ineta/internal/stage"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the checks relevant to steps. An empty step list checks
// everything.
func RunAll(cfg *config.Config, steps []stage.Name) []Result {
	if cfg == nil {
		return nil
	}
	if len(steps) == 0 {
		steps = stage.Order
	}

	results := []Result{
		CheckConfig(cfg),
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if slices.Contains(steps, stage.Cluster) {
		results = append(results, CheckPeaks(cfg.Paths.PeaksFile))
	}
	if slices.Contains(steps, stage.Match) {
		results = append(results, CheckLibrary(cfg.Paths.LibraryFile, cfg.Matching.Metabolites))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
