package pipeline_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"ineta/internal/config"
	"ineta/internal/logging"
	"ineta/internal/peaks"
	"ineta/internal/pipeline"
	"ineta/internal/runstore"
	"ineta/internal/stage"
	"ineta/internal/testsupport"
)

func samplePeaks() peaks.Levels {
	return peaks.Levels{
		0: {{CS: 10, DQ: 45}, {CS: 35, DQ: 45}, {CS: 10, DQ: 30}},
		1: {{CS: 10.1, DQ: 44.9}, {CS: 35.1, DQ: 45.1}},
	}
}

func newRunner(t *testing.T, opts ...testsupport.ConfigOption) (*pipeline.Runner, *config.Config, *runstore.Store) {
	t.Helper()
	base := []testsupport.ConfigOption{
		testsupport.WithPeaks(samplePeaks()),
		testsupport.WithLibrary(
			testsupport.PairEntry(t, "1::bmse000028::L_alanine::1::D2O", "L_alanine", "C1", 10, "C2", 35),
			testsupport.PairEntry(t, "2::bmse000900::Other::1::D2O", "Other", "C1", 50, "C2", 70),
		),
	}
	cfg := testsupport.NewConfig(t, append(base, opts...)...)
	store := testsupport.MustOpenStore(t, cfg)
	runner, err := pipeline.NewRunner(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner, cfg, store
}

func TestRunAllSteps(t *testing.T) {
	runner, cfg, _ := newRunner(t)

	res, err := runner.Run(context.Background(), pipeline.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Steps) != len(stage.Order) {
		t.Fatalf("expected every step to run, got %v", res.Steps)
	}
	if res.Cluster.Picked != 5 || res.Cluster.Clustered() != 5 {
		t.Fatalf("unexpected cluster counts picked=%d clustered=%d", res.Cluster.Picked, res.Cluster.Clustered())
	}
	if len(res.Find.Merged) != 3 || res.Find.MergeStats.Averaged != 2 {
		t.Fatalf("unexpected merge output %#v", res.Find.MergeStats)
	}
	if len(res.Find.Networks) != 1 || len(res.Find.Networks[0]) != 2 {
		t.Fatalf("expected one two-point network, got %v", res.Find.Networks)
	}
	if len(res.Match.Networks) != 1 || len(res.Match.Networks[0].Results) != 1 {
		t.Fatalf("expected one match, got %#v", res.Match.Networks)
	}
	best := res.Match.Networks[0].Results[0]
	if best.Name != "L_alanine" || best.HitScore != 1 || best.CoverageScore != 1 {
		t.Fatalf("unexpected match %#v", best)
	}
	if res.Match.LibraryEntries != 2 {
		t.Fatalf("expected two library entries, got %d", res.Match.LibraryEntries)
	}

	if res.Summary.Summary.Networks != 1 || res.Summary.Summary.Matched != 1 || res.Summary.Summary.Merged != 3 {
		t.Fatalf("unexpected summary %#v", res.Summary.Summary)
	}
	networks, err := os.ReadFile(cfg.OutputPath(cfg.Report.NetworkFile))
	if err != nil {
		t.Fatalf("read network file: %v", err)
	}
	if !strings.HasPrefix(string(networks), "Network1\t(") {
		t.Fatalf("unexpected network file %q", networks)
	}
	matches, err := os.ReadFile(cfg.OutputPath(cfg.Report.MatchesFile))
	if err != nil {
		t.Fatalf("read matches file: %v", err)
	}
	if !strings.Contains(string(matches), "1\tbmse000028\tL_alanine\tD2O\t0\t1\t1\tCX1-CX2->C1-C2,\t\n") {
		t.Fatalf("unexpected matches file %q", matches)
	}
}

func TestRunIncludesSingletons(t *testing.T) {
	runner, _, _ := newRunner(t, testsupport.WithIncludeSingletons(true))

	res, err := runner.Run(context.Background(), pipeline.Options{Steps: []stage.Name{stage.Cluster, stage.Find}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Find.Networks) != 2 {
		t.Fatalf("expected isolated point as its own network, got %v", res.Find.Networks)
	}
	if got := res.Find.Networks[0]; len(got) != 1 || got[0] != (peaks.Point{CS: 10, DQ: 30}) {
		t.Fatalf("expected singleton first, got %v", got)
	}
}

func TestRunResumesLatestRun(t *testing.T) {
	runner, _, store := newRunner(t)
	ctx := context.Background()

	first, err := runner.Run(ctx, pipeline.Options{Steps: []stage.Name{stage.Cluster}})
	if err != nil {
		t.Fatalf("cluster run: %v", err)
	}
	steps, err := stage.Select("find+")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	second, err := runner.Run(ctx, pipeline.Options{Steps: steps})
	if err != nil {
		t.Fatalf("resumed run: %v", err)
	}
	if second.Run.ID != first.Run.ID {
		t.Fatalf("expected resume of %s, got %s", first.Run.ID, second.Run.ID)
	}
	if second.Summary == nil || second.Summary.Summary.Picked != 5 {
		t.Fatalf("expected summary built from stored cluster output, got %#v", second.Summary)
	}

	stored, err := store.Stages(ctx, first.Run.ID)
	if err != nil {
		t.Fatalf("Stages: %v", err)
	}
	if len(stored) != len(stage.Order) {
		t.Fatalf("expected every step stored, got %v", stored)
	}
}

func TestRunExplicitRunID(t *testing.T) {
	runner, _, _ := newRunner(t)
	ctx := context.Background()

	first, err := runner.Run(ctx, pipeline.Options{Steps: []stage.Name{stage.Cluster, stage.Find}})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := runner.Run(ctx, pipeline.Options{Steps: []stage.Name{stage.Cluster}}); err != nil {
		t.Fatalf("second run: %v", err)
	}

	res, err := runner.Run(ctx, pipeline.Options{Steps: []stage.Name{stage.Match}, RunID: first.Run.ID})
	if err != nil {
		t.Fatalf("match on first run: %v", err)
	}
	if res.Run.ID != first.Run.ID {
		t.Fatalf("expected run %s, got %s", first.Run.ID, res.Run.ID)
	}

	if _, err := runner.Run(ctx, pipeline.Options{Steps: []stage.Name{stage.Match}, RunID: "ffffffff"}); !errors.Is(err, stage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown run, got %v", err)
	}
}

func TestRunMissingStage(t *testing.T) {
	runner, _, _ := newRunner(t)
	ctx := context.Background()

	_, err := runner.Run(ctx, pipeline.Options{Steps: []stage.Name{stage.Match}})
	if !errors.Is(err, stage.ErrMissingStage) {
		t.Fatalf("expected ErrMissingStage without any run, got %v", err)
	}

	if _, err := runner.Run(ctx, pipeline.Options{Steps: []stage.Name{stage.Cluster}}); err != nil {
		t.Fatalf("cluster run: %v", err)
	}
	_, err = runner.Run(ctx, pipeline.Options{Steps: []stage.Name{stage.Match}})
	if !errors.Is(err, stage.ErrMissingStage) {
		t.Fatalf("expected ErrMissingStage for absent find output, got %v", err)
	}
	if !strings.Contains(err.Error(), "ineta run --steps find+") {
		t.Fatalf("expected remediation in error, got %v", err)
	}
}

func TestRunMissingPeaksFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	runner, err := pipeline.NewRunner(cfg, store, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	_, err = runner.Run(context.Background(), pipeline.Options{Steps: []stage.Name{stage.Cluster}})
	if !errors.Is(err, stage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if stage.Kind(err) != "not_found" {
		t.Fatalf("unexpected kind %q", stage.Kind(err))
	}
}

func TestRunRespectsLock(t *testing.T) {
	runner, cfg, _ := newRunner(t)

	lock, err := runstore.AcquireLock(cfg.LockPath())
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	defer lock.Release()

	if _, err := runner.Run(context.Background(), pipeline.Options{}); !errors.Is(err, runstore.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunMetaboliteFilter(t *testing.T) {
	runner, cfg, _ := newRunner(t)
	cfg.Matching.Metabolites = []string{"other"}

	res, err := runner.Run(context.Background(), pipeline.Options{Steps: []stage.Name{stage.Cluster, stage.Find, stage.Match}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Match.LibraryEntries != 1 {
		t.Fatalf("expected filtered library, got %d entries", res.Match.LibraryEntries)
	}
	if len(res.Match.Networks[0].Results) != 0 {
		t.Fatalf("expected no matches, got %#v", res.Match.Networks[0].Results)
	}
}

func TestClusterPeaksRejectsEmptyInput(t *testing.T) {
	_, err := pipeline.ClusterPeaks(peaks.Levels{}, config.Default().Cluster)
	if !errors.Is(err, stage.ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}
	_, err = pipeline.ClusterPeaks(peaks.Levels{0: nil}, config.Default().Cluster)
	if !errors.Is(err, stage.ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate for empty level, got %v", err)
	}
}

func TestPolicyFromConfig(t *testing.T) {
	cfg := config.Default()
	policy := pipeline.PolicyFromConfig(cfg.Matching)
	if policy.MatchTol != cfg.Matching.MatchTol || policy.TopTol != cfg.Matching.TopTol {
		t.Fatalf("unexpected policy %#v", policy)
	}
	if err := policy.Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}
}
