package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ineta/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "ineta", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "ineta", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.StorePath() != filepath.Join(wantWork, "ineta.db") {
		t.Fatalf("unexpected store path: %q", cfg.StorePath())
	}
	if cfg.Paths.PeaksFile != "" || cfg.Paths.LibraryFile != "" {
		t.Fatalf("expected empty input paths, got %q %q", cfg.Paths.PeaksFile, cfg.Paths.LibraryFile)
	}
	defaults := config.Default()
	if cfg.Network != defaults.Network {
		t.Fatalf("unexpected network defaults: %+v", cfg.Network)
	}
	if cfg.Matching.Workers != defaults.Matching.Workers {
		t.Fatalf("unexpected workers: %d", cfg.Matching.Workers)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.OutputDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	t.Chdir(project)
	if err := os.WriteFile("ineta.toml", []byte("[network]\ndqt = 1.5\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}
	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "ineta.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.Network.DQT != 1.5 {
		t.Fatalf("expected dqt override, got %v", cfg.Network.DQT)
	}
	if cfg.Network.SumXY != config.Default().Network.SumXY {
		t.Fatalf("expected default sum_xy to survive partial override, got %v", cfg.Network.SumXY)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "ineta.toml")

	type payload struct {
		Paths struct {
			PeaksFile string `toml:"peaks_file"`
		} `toml:"paths"`
		Cluster struct {
			Center string `toml:"center"`
		} `toml:"cluster"`
		Merge struct {
			Select string `toml:"select"`
		} `toml:"merge"`
		Matching struct {
			MatchTol    int      `toml:"match_tol"`
			Metabolites []string `toml:"metabolites"`
		} `toml:"matching"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.PeaksFile = filepath.Join(tempDir, "peaks.json")
	custom.Cluster.Center = " Median "
	custom.Merge.Select = "LAST"
	custom.Matching.MatchTol = 5
	custom.Matching.Metabolites = []string{"alanine", " Alanine", "", "citrate"}
	custom.Logging.Format = "yaml"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.PeaksFile != custom.Paths.PeaksFile {
		t.Fatalf("unexpected peaks file: %q", cfg.Paths.PeaksFile)
	}
	if cfg.Cluster.Center != "median" || cfg.Merge.Select != "last" {
		t.Fatalf("expected normalized enums, got %q %q", cfg.Cluster.Center, cfg.Merge.Select)
	}
	if cfg.Matching.MatchTol != 5 {
		t.Fatalf("expected match_tol 5, got %d", cfg.Matching.MatchTol)
	}
	if got := strings.Join(cfg.Matching.Metabolites, ","); got != "alanine,citrate" {
		t.Fatalf("unexpected metabolites: %q", got)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected unknown log format to fall back to console, got %q", cfg.Logging.Format)
	}
}

func TestEnvFillsInputPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INETA_PEAKS_FILE", filepath.Join(dir, "env-peaks.tsv"))
	t.Setenv("INETA_LIBRARY_FILE", filepath.Join(dir, "env-library.json"))

	cfg, _, _, err := config.Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.PeaksFile != filepath.Join(dir, "env-peaks.tsv") {
		t.Fatalf("expected peaks file from env, got %q", cfg.Paths.PeaksFile)
	}
	if cfg.Paths.LibraryFile != filepath.Join(dir, "env-library.json") {
		t.Fatalf("expected library file from env, got %q", cfg.Paths.LibraryFile)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ineta.toml")
	if err := os.WriteFile(path, []byte("[network]\nsumxy = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "sumxy") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestValidateRejectsBadTolerances(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero cs threshold", func(c *config.Config) { c.Cluster.CSThreshold = 0 }, "cluster.cs_threshold"},
		{"bad center", func(c *config.Config) { c.Cluster.Center = "mode" }, "cluster.center"},
		{"negative merge", func(c *config.Config) { c.Merge.LevelDistance = -1 }, "merge.level_distance"},
		{"bad select", func(c *config.Config) { c.Merge.Select = "first" }, "merge.select"},
		{"zero dqt", func(c *config.Config) { c.Network.DQT = 0 }, "network.dqt"},
		{"negative sdt", func(c *config.Config) { c.Network.SDT = -0.1 }, "network.sdt"},
		{"ambiguity above one", func(c *config.Config) { c.Matching.Ambiguity = 1.5 }, "matching.ambiguity"},
		{"negative top", func(c *config.Config) { c.Matching.TopTol = -1 }, "matching.top_tol"},
		{"negative match", func(c *config.Config) { c.Matching.MatchTol = -1 }, "matching.match_tol"},
		{"zero workers", func(c *config.Config) { c.Matching.Workers = 0 }, "matching.workers"},
		{"precision", func(c *config.Config) { c.Report.Precision = 9 }, "report.precision"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.WorkDir = t.TempDir()
			cfg.Paths.OutputDir = t.TempDir()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, section := range []string{"[paths]", "[cluster]", "[merge]", "[network]", "[matching]", "[report]", "[logging]"} {
		if !strings.Contains(string(contents), section) {
			t.Fatalf("sample missing %s", section)
		}
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	defaults := config.Default()
	if cfg.Network != defaults.Network || cfg.Cluster != defaults.Cluster || cfg.Merge != defaults.Merge {
		t.Fatalf("sample values drifted from defaults: %+v", cfg)
	}
}

func TestOutputPath(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.OutputDir = "/data/out"
	if got := cfg.OutputPath("matches.tsv"); got != filepath.Join("/data/out", "matches.tsv") {
		t.Fatalf("unexpected relative output path %q", got)
	}
	if got := cfg.OutputPath("/tmp/x.tsv"); got != "/tmp/x.tsv" {
		t.Fatalf("unexpected absolute output path %q", got)
	}
}
