package report

import (
	"io"

	"ineta/internal/config"
	"ineta/internal/fileutil"
	"ineta/internal/matching"
	"ineta/internal/peaks"
)

// Input gathers everything the report files are rendered from.
type Input struct {
	Networks [][]peaks.Point
	Matches  []matching.NetworkMatches
	Summary  Summary
}

// Paths lists the files written by WriteAll.
type Paths struct {
	Networks string `json:"networks"`
	Matches  string `json:"matches"`
	Summary  string `json:"summary"`
}

// WriteAll renders every report file into the configured output directory.
// Each file is replaced atomically.
func WriteAll(cfg *config.Config, in Input) (Paths, error) {
	paths := Paths{
		Networks: cfg.OutputPath(cfg.Report.NetworkFile),
		Matches:  cfg.OutputPath(cfg.Report.MatchesFile),
		Summary:  cfg.OutputPath(cfg.Report.SummaryFile),
	}
	precision := cfg.Report.Precision

	if err := fileutil.WriteAtomic(paths.Networks, 0o644, func(w io.Writer) error {
		return WriteNetworks(w, in.Networks, precision)
	}); err != nil {
		return Paths{}, err
	}
	if err := fileutil.WriteAtomic(paths.Matches, 0o644, func(w io.Writer) error {
		return WriteMatches(w, in.Matches)
	}); err != nil {
		return Paths{}, err
	}
	if err := fileutil.WriteAtomic(paths.Summary, 0o644, func(w io.Writer) error {
		return WriteSummary(w, in.Summary)
	}); err != nil {
		return Paths{}, err
	}
	return paths, nil
}
