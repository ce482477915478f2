package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ineta/internal/cluster"
	"ineta/internal/config"
	"ineta/internal/library"
	"ineta/internal/logging"
	"ineta/internal/matching"
	"ineta/internal/merge"
	"ineta/internal/network"
	"ineta/internal/peaks"
	"ineta/internal/report"
	"ineta/internal/stage"
)

// ClusterPeaks collapses the picked peaks of each level into centroids.
func ClusterPeaks(levels peaks.Levels, cfg config.Cluster) (ClusterOutput, error) {
	if len(levels) == 0 {
		return ClusterOutput{}, stage.Wrap(stage.ErrDegenerate, string(stage.Cluster), "read peaks", "peak list has no levels", peaks.ErrNoLevels)
	}
	out := ClusterOutput{Picked: levels.Total(), Centroids: peaks.Levels{}}
	for _, idx := range levels.Indices() {
		centroids, err := cluster.Level(levels[idx], cfg.CSThreshold, cfg.DQThreshold, cluster.Center(cfg.Center))
		if err != nil {
			return ClusterOutput{}, stage.Wrap(stage.ErrDegenerate, string(stage.Cluster), "cluster level", fmt.Sprintf("level %d", idx), err)
		}
		out.Centroids[idx] = centroids
	}
	return out, nil
}

// FindNetworks merges the level centroids, detects aligned pairs, builds the
// connected networks, and tags them for matching.
func FindNetworks(in ClusterOutput, cfg *config.Config) (FindOutput, error) {
	merged, stats, err := merge.Levels(in.Centroids, cfg.Merge.LevelDistance, merge.Selection(cfg.Merge.Select))
	if err != nil {
		return FindOutput{}, stage.Wrap(stage.ErrDegenerate, string(stage.Find), "merge levels", "", err)
	}

	tol := network.Tolerances{
		DQT:   cfg.Network.DQT,
		SumXY: cfg.Network.SumXY,
		SDT:   cfg.Network.SDT,
		CST:   cfg.Network.CST,
	}
	aligned, err := network.Align(merged, tol)
	if err != nil {
		return FindOutput{}, stage.Wrap(stage.ErrValidation, string(stage.Find), "align points", "", err)
	}
	built, err := network.Build(aligned, tol.CST)
	if err != nil {
		return FindOutput{}, stage.Wrap(stage.ErrValidation, string(stage.Find), "build networks", "", err)
	}

	networks := built.Networks
	if cfg.Network.IncludeSingletons {
		networks = network.WithSingletons(networks, merged)
	}
	return FindOutput{
		Merged:     merged,
		MergeStats: stats,
		Aligned:    aligned,
		Networks:   networks,
		Pairs:      built.Pairs,
		Tagged:     network.TagAll(networks, built.Pairs),
	}, nil
}

// PolicyFromConfig converts the matching section into matcher tolerances.
func PolicyFromConfig(cfg config.Matching) matching.Policy {
	return matching.Policy{
		Ambiguity: cfg.Ambiguity,
		NearTol:   cfg.NearTol,
		MatchTol:  cfg.MatchTol,
		TopTol:    cfg.TopTol,
		HitTol:    cfg.HitTol,
		CovTol:    cfg.CovTol,
	}
}

// MatchNetworks scores every tagged network against the library, restricted
// to the configured metabolites when any are listed.
func MatchNetworks(ctx context.Context, in FindOutput, lib *library.Library, cfg *config.Config, logger *slog.Logger) (MatchOutput, error) {
	if lib == nil {
		return MatchOutput{}, stage.Wrap(stage.ErrNotFound, string(stage.Match), "load library", "library is nil", nil)
	}
	for _, skipped := range lib.Skipped {
		logger.Debug("library entry skipped",
			logging.String(logging.FieldEventType, "library_skip"),
			logging.String("key", skipped.Key),
			logging.String("reason", skipped.Reason),
		)
	}
	selected := lib.Filter(cfg.Matching.Metabolites)
	if len(cfg.Matching.Metabolites) > 0 && selected.Len() == 0 {
		logging.WarnWithContext(logger, "no library entries match the metabolite filter", "library_filter_empty",
			logging.Any("metabolites", cfg.Matching.Metabolites),
			logging.String(logging.FieldErrorHint, "check matching.metabolites against library names"),
			logging.String(logging.FieldImpact, "every network reports no matches"),
		)
	}

	matcher, err := matching.New(selected, PolicyFromConfig(cfg.Matching))
	if err != nil {
		return MatchOutput{}, stage.Wrap(stage.ErrConfiguration, string(stage.Match), "build matcher", "", err)
	}
	all, err := matcher.MatchAll(ctx, in.Tagged, cfg.Matching.Workers)
	if err != nil {
		return MatchOutput{}, err
	}
	for _, nm := range all {
		netLogger := logging.WithContext(stage.WithNetwork(ctx, nm.Number), logger)
		if len(nm.Results) == 0 {
			netLogger.Debug("no matches found", logging.Int("points", len(nm.Network.Points)))
			continue
		}
		netLogger.Info("matches found",
			logging.Int("points", len(nm.Network.Points)),
			logging.Int("results", len(nm.Results)),
			logging.String("best", nm.Results[0].Name),
		)
	}
	return MatchOutput{
		LibraryFile:    cfg.Paths.LibraryFile,
		LibraryEntries: matcher.Entries(),
		LibrarySkipped: len(lib.Skipped),
		Networks:       all,
	}, nil
}

// Summarize counts the outputs of the earlier steps.
func Summarize(runID string, clustered ClusterOutput, found FindOutput, matched MatchOutput, now time.Time) report.Summary {
	return report.Summary{
		RunID:          runID,
		GeneratedAt:    now,
		Picked:         clustered.Picked,
		Clustered:      clustered.Clustered(),
		Merged:         len(found.Merged),
		Networks:       len(found.Networks),
		Matched:        matching.Matched(matched.Networks),
		LibraryEntries: matched.LibraryEntries,
		LibrarySkipped: matched.LibrarySkipped,
		Unmatched:      report.UnmatchedNetworks(matched.Networks),
	}
}
