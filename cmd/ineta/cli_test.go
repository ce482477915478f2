package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ineta/internal/config"
	"ineta/internal/peaks"
	"ineta/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	base := []testsupport.ConfigOption{
		testsupport.WithPeaks(peaks.Levels{
			0: {{CS: 10, DQ: 45}, {CS: 35, DQ: 45}, {CS: 10, DQ: 30}},
			1: {{CS: 10.1, DQ: 44.9}, {CS: 35.1, DQ: 45.1}},
		}),
		testsupport.WithLibrary(
			testsupport.PairEntry(t, "1::bmse000028::L_alanine::1::D2O", "L_alanine", "C1", 10, "C2", 35),
			testsupport.PairEntry(t, "2::bmse000900::Other::1::D2O", "Other", "C1", 50, "C2", 70),
		),
	}
	cfg := testsupport.NewConfig(t, append(base, opts...)...)
	cfg.Logging.Level = "error"

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	testsupport.WriteFile(t, path, data)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	full := args
	if configPath != "" {
		full = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(full)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	missing := filepath.Join(t.TempDir(), "absent.toml")

	out, _, err := runCLI(t, []string{"config", "validate"}, missing)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "defaults were used")
}

func TestRunThenShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "cluster, find, match, summary")
	requireContains(t, out, "networks: 1 from 3 merged points")
	requireContains(t, out, "matches: 1 of 1 networks")

	out, _, err = runCLI(t, []string{"show", "networks"}, env.configPath)
	if err != nil {
		t.Fatalf("show networks: %v", err)
	}
	requireContains(t, out, "Network\tPoints\tPoints (cs, dq)\n")
	requireContains(t, out, "1\t2\t")

	out, _, err = runCLI(t, []string{"show", "matches"}, env.configPath)
	if err != nil {
		t.Fatalf("show matches: %v", err)
	}
	requireContains(t, out, "1\tbmse000028\tL Alanine\tD2O\t0\t1\t1\tCX1-CX2->C1-C2,\n")

	out, _, err = runCLI(t, []string{"show", "matches", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("show matches --json: %v", err)
	}
	requireContains(t, out, `"name": "L_alanine"`)

	if _, _, err := runCLI(t, []string{"show", "matches", "--network", "4"}, env.configPath); err == nil {
		t.Fatal("expected an error for an unknown network number")
	}

	out, _, err = runCLI(t, []string{"show", "networks", "--table"}, env.configPath)
	if err != nil {
		t.Fatalf("show networks --table: %v", err)
	}
	requireContains(t, out, "╭")
}

func TestRunResumeFromMatch(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"run", "--steps", "match"}, env.configPath); err == nil {
		t.Fatal("expected match without a prior run to fail")
	} else {
		requireContains(t, err.Error(), "find")
	}

	if _, _, err := runCLI(t, []string{"run", "--steps", "find"}, env.configPath); err == nil {
		t.Fatal("expected find before cluster to fail")
	}
	if _, _, err := runCLI(t, []string{"run", "--steps", "cluster"}, env.configPath); err != nil {
		t.Fatalf("run cluster: %v", err)
	}
	out, _, err := runCLI(t, []string{"run", "--steps", "find+"}, env.configPath)
	if err != nil {
		t.Fatalf("run find+: %v", err)
	}
	requireContains(t, out, "find, match, summary")

	out, _, err = runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, "cluster,find,match,summary")
}

func TestRunRejectsUnknownSteps(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"run", "--steps", "everything"}, env.configPath)
	if err == nil {
		t.Fatal("expected unknown step error")
	}
	requireContains(t, err.Error(), "unknown step")
}

func TestRunStopsOnPreflightFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.Remove(env.cfg.Paths.PeaksFile); err != nil {
		t.Fatalf("remove peaks: %v", err)
	}

	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, err.Error(), "preflight failed")
	requireContains(t, out, "does not exist")

	out, _, err = runCLI(t, []string{"preflight", "--steps", "match"}, env.configPath)
	if err != nil {
		t.Fatalf("preflight for match only: %v", err)
	}
	requireContains(t, out, "[OK]")
}

func TestRunsRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"run", "--steps", "cluster"}, env.configPath); err != nil {
		t.Fatalf("run cluster: %v", err)
	}
	out, _, err := runCLI(t, []string{"runs", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	start := strings.Index(out, `"id": "`)
	if start < 0 {
		t.Fatalf("no run id in %s", out)
	}
	id := out[start+len(`"id": "`):][:8]

	out, _, err = runCLI(t, []string{"runs", "rm", id}, env.configPath)
	if err != nil {
		t.Fatalf("runs rm: %v", err)
	}
	requireContains(t, out, "Deleted run "+id)

	out, _, err = runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestLibraryInspect(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"library", "inspect"}, env.configPath)
	if err != nil {
		t.Fatalf("library inspect: %v", err)
	}
	requireContains(t, out, "(2 entries, 0 skipped)")
	requireContains(t, out, "bmse000028\tL Alanine\tD2O")

	out, _, err = runCLI(t, []string{"library", "inspect", "--name", "other", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("library inspect --name: %v", err)
	}
	requireContains(t, out, `"display_name": "Other"`)
	if strings.Contains(out, "L_alanine") {
		t.Fatalf("filter kept L_alanine: %s", out)
	}
}
