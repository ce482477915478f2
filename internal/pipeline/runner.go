package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"ineta/internal/config"
	"ineta/internal/library"
	"ineta/internal/logging"
	"ineta/internal/matching"
	"ineta/internal/peaks"
	"ineta/internal/report"
	"ineta/internal/runstore"
	"ineta/internal/stage"
)

// Runner executes pipeline steps against a checkpoint store.
type Runner struct {
	cfg    *config.Config
	store  *runstore.Store
	logger *slog.Logger
	now    func() time.Time
}

// Options selects the steps to run and the run they belong to.
type Options struct {
	// Steps lists the steps to execute, in pipeline order.
	Steps []stage.Name
	// RunID resumes an existing run. When empty, a run starting with the
	// cluster step creates a new run and any other run resumes the latest.
	RunID string
}

// Result carries the run and the outputs produced or loaded while running.
type Result struct {
	Run     *runstore.Run
	Steps   []stage.Name
	Cluster *ClusterOutput
	Find    *FindOutput
	Match   *MatchOutput
	Summary *SummaryOutput
}

// NewRunner wires a runner. A nil logger discards output.
func NewRunner(cfg *config.Config, store *runstore.Store, logger *slog.Logger) (*Runner, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("pipeline requires config and checkpoint store")
	}
	return &Runner{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		now:    time.Now,
	}, nil
}

// Run executes opts.Steps in order while holding the work directory lock.
// It stops at the first failing step.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	steps := opts.Steps
	if len(steps) == 0 {
		steps = stage.Order
	}

	lock, err := runstore.AcquireLock(r.cfg.LockPath())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			r.logger.Warn("release run lock failed", logging.Error(err))
		}
	}()

	run, err := r.resolveRun(ctx, opts.RunID, steps[0])
	if err != nil {
		return nil, err
	}
	res := &Result{Run: run}
	ctx = stage.WithRunID(ctx, run.ID)

	for _, name := range steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := r.execute(ctx, name, res); err != nil {
			return res, err
		}
		res.Steps = append(res.Steps, name)
	}
	return res, nil
}

func (r *Runner) resolveRun(ctx context.Context, runID string, first stage.Name) (*runstore.Run, error) {
	if runID != "" {
		run, err := r.store.GetRun(ctx, runID)
		if errors.Is(err, runstore.ErrNotFound) {
			return nil, stage.Wrap(stage.ErrNotFound, string(first), "resolve run", fmt.Sprintf("run %q", runID), err)
		}
		return run, err
	}
	if first == stage.Cluster {
		snapshot, err := toml.Marshal(r.cfg)
		if err != nil {
			return nil, fmt.Errorf("snapshot config: %w", err)
		}
		return r.store.CreateRun(ctx, runstore.NewRun{
			PeaksFile:   r.cfg.Paths.PeaksFile,
			LibraryFile: r.cfg.Paths.LibraryFile,
			ConfigTOML:  string(snapshot),
		})
	}
	run, err := r.store.LatestRun(ctx)
	if errors.Is(err, runstore.ErrNotFound) {
		prev, _ := first.Previous()
		return nil, stage.Missing(first, prev)
	}
	return run, err
}

// execute runs one step with start, completion, and failure logging and
// persists its output.
func (r *Runner) execute(ctx context.Context, name stage.Name, res *Result) error {
	stageCtx := stage.WithStage(ctx, name)
	logger := logging.WithContext(stageCtx, r.logger)
	logger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	started := r.now()

	output, attrs, err := r.dispatch(stageCtx, logger, name, res)
	if err == nil {
		err = r.store.SaveStage(stageCtx, res.Run.ID, name, output)
	}
	if err != nil {
		details := stage.Describe(err)
		failure := []logging.Attr{
			logging.String("error_kind", stage.Kind(err)),
			logging.String("error_message", details.Message),
			logging.Error(err),
		}
		if errors.Is(err, stage.ErrMissingStage) {
			prev, _ := name.Previous()
			failure = append(failure, logging.String(logging.FieldErrorHint, fmt.Sprintf("run ineta run --steps %s+", prev)))
		}
		logging.ErrorWithContext(logger, "stage failed", "stage_failure", failure...)
		return err
	}

	attrs = append([]logging.Attr{
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", r.now().Sub(started)),
	}, attrs...)
	logger.Info("stage completed", logging.Args(attrs...)...)
	return nil
}

func (r *Runner) dispatch(ctx context.Context, logger *slog.Logger, name stage.Name, res *Result) (any, []logging.Attr, error) {
	switch name {
	case stage.Cluster:
		out, err := r.runCluster()
		if err != nil {
			return nil, nil, err
		}
		res.Cluster = &out
		return out, []logging.Attr{
			logging.Int("picked", out.Picked),
			logging.Int("levels", len(out.Centroids)),
			logging.Int("clustered", out.Clustered()),
		}, nil
	case stage.Find:
		in, err := r.clusterOutput(ctx, name, res)
		if err != nil {
			return nil, nil, err
		}
		out, err := FindNetworks(*in, r.cfg)
		if err != nil {
			return nil, nil, err
		}
		res.Find = &out
		return out, []logging.Attr{
			logging.Int("merged", len(out.Merged)),
			logging.Int("aligned_pairs", len(out.Aligned)),
			logging.Int("networks", len(out.Networks)),
		}, nil
	case stage.Match:
		in, err := r.findOutput(ctx, name, res)
		if err != nil {
			return nil, nil, err
		}
		lib, err := r.loadLibrary()
		if err != nil {
			return nil, nil, err
		}
		out, err := MatchNetworks(ctx, *in, lib, r.cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		res.Match = &out
		return out, []logging.Attr{
			logging.Int("library_entries", out.LibraryEntries),
			logging.Int("library_skipped", out.LibrarySkipped),
			logging.Int("matched_networks", matching.Matched(out.Networks)),
		}, nil
	case stage.Summary:
		out, err := r.runSummary(ctx, name, res)
		if err != nil {
			return nil, nil, err
		}
		res.Summary = &out
		return out, []logging.Attr{
			logging.String("networks_file", out.Files.Networks),
			logging.String("matches_file", out.Files.Matches),
			logging.String("summary_file", out.Files.Summary),
		}, nil
	default:
		return nil, nil, stage.Wrap(stage.ErrValidation, string(name), "dispatch", "unknown step", nil)
	}
}

func (r *Runner) runCluster() (ClusterOutput, error) {
	path := r.cfg.Paths.PeaksFile
	if path == "" {
		return ClusterOutput{}, stage.Wrap(stage.ErrConfiguration, string(stage.Cluster), "read peaks", "paths.peaks_file is not set", nil)
	}
	levels, err := peaks.Load(path)
	if err != nil {
		marker := stage.ErrValidation
		if errors.Is(err, os.ErrNotExist) {
			marker = stage.ErrNotFound
		}
		return ClusterOutput{}, stage.Wrap(marker, string(stage.Cluster), "read peaks", path, err)
	}
	return ClusterPeaks(levels, r.cfg.Cluster)
}

func (r *Runner) loadLibrary() (*library.Library, error) {
	path := r.cfg.Paths.LibraryFile
	if path == "" {
		return nil, stage.Wrap(stage.ErrConfiguration, string(stage.Match), "load library", "paths.library_file is not set", nil)
	}
	lib, err := library.Load(path)
	if err != nil {
		marker := stage.ErrValidation
		if errors.Is(err, os.ErrNotExist) {
			marker = stage.ErrNotFound
		}
		return nil, stage.Wrap(marker, string(stage.Match), "load library", path, err)
	}
	return lib, nil
}

func (r *Runner) runSummary(ctx context.Context, name stage.Name, res *Result) (SummaryOutput, error) {
	clustered, err := r.clusterOutput(ctx, name, res)
	if err != nil {
		return SummaryOutput{}, err
	}
	found, err := r.findOutput(ctx, name, res)
	if err != nil {
		return SummaryOutput{}, err
	}
	matched, err := r.matchOutput(ctx, name, res)
	if err != nil {
		return SummaryOutput{}, err
	}

	summary := Summarize(res.Run.ID, *clustered, *found, *matched, r.now())
	files, err := report.WriteAll(r.cfg, report.Input{
		Networks: found.Networks,
		Matches:  matched.Networks,
		Summary:  summary,
	})
	if err != nil {
		return SummaryOutput{}, stage.Wrap(stage.ErrConfiguration, string(name), "write reports", r.cfg.Paths.OutputDir, err)
	}
	return SummaryOutput{Summary: summary, Files: files}, nil
}

func (r *Runner) clusterOutput(ctx context.Context, name stage.Name, res *Result) (*ClusterOutput, error) {
	if res.Cluster == nil {
		var out ClusterOutput
		if err := r.load(ctx, res.Run.ID, name, stage.Cluster, &out); err != nil {
			return nil, err
		}
		res.Cluster = &out
	}
	return res.Cluster, nil
}

func (r *Runner) findOutput(ctx context.Context, name stage.Name, res *Result) (*FindOutput, error) {
	if res.Find == nil {
		var out FindOutput
		if err := r.load(ctx, res.Run.ID, name, stage.Find, &out); err != nil {
			return nil, err
		}
		res.Find = &out
	}
	return res.Find, nil
}

func (r *Runner) matchOutput(ctx context.Context, name stage.Name, res *Result) (*MatchOutput, error) {
	if res.Match == nil {
		var out MatchOutput
		if err := r.load(ctx, res.Run.ID, name, stage.Match, &out); err != nil {
			return nil, err
		}
		res.Match = &out
	}
	return res.Match, nil
}

func (r *Runner) load(ctx context.Context, runID string, name, needs stage.Name, dst any) error {
	err := r.store.LoadStage(ctx, runID, needs, dst)
	if errors.Is(err, runstore.ErrNotFound) {
		return stage.Missing(name, needs)
	}
	return err
}
