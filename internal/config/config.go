package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input files and working directories.
type Paths struct {
	WorkDir     string `toml:"work_dir"`
	OutputDir   string `toml:"output_dir"`
	LogDir      string `toml:"log_dir"`
	PeaksFile   string `toml:"peaks_file"`
	LibraryFile string `toml:"library_file"`
}

// Cluster contains the per-level point clustering thresholds, in ppm.
type Cluster struct {
	CSThreshold float64 `toml:"cs_threshold"`
	DQThreshold float64 `toml:"dq_threshold"`
	Center      string  `toml:"center"`
}

// Merge contains the cross-level merge settings.
type Merge struct {
	LevelDistance float64 `toml:"level_distance"`
	Select        string  `toml:"select"`
}

// Network contains the alignment and vertical clustering tolerances, in ppm.
type Network struct {
	DQT               float64 `toml:"dqt"`
	SumXY             float64 `toml:"sum_xy"`
	SDT               float64 `toml:"sdt"`
	CST               float64 `toml:"cst"`
	IncludeSingletons bool    `toml:"include_singletons"`
}

// Matching contains the library matching tolerances.
type Matching struct {
	Ambiguity   float64  `toml:"ambiguity"`
	NearTol     float64  `toml:"near_tol"`
	MatchTol    int      `toml:"match_tol"`
	TopTol      float64  `toml:"top_tol"`
	HitTol      float64  `toml:"hit_tol"`
	CovTol      float64  `toml:"cov_tol"`
	Workers     int      `toml:"workers"`
	Metabolites []string `toml:"metabolites"`
}

// Report contains output file names, relative to paths.output_dir.
type Report struct {
	Precision   int    `toml:"precision"`
	NetworkFile string `toml:"network_file"`
	MatchesFile string `toml:"matches_file"`
	SummaryFile string `toml:"summary_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ineta.
//
// Configuration sections by subsystem:
//   - Paths: inputs, checkpoint work directory, reports, logs
//   - Cluster: per-level point clustering
//   - Merge: cross-level centroid merging
//   - Network: alignment rules and vertical clustering
//   - Matching: library matching gates and parallelism
//   - Report: output files
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Cluster  Cluster  `toml:"cluster"`
	Merge    Merge    `toml:"merge"`
	Network  Network  `toml:"network"`
	Matching Matching `toml:"matching"`
	Report   Report   `toml:"report"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work, output, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the checkpoint database location.
func (c *Config) StorePath() string {
	return filepath.Join(c.Paths.WorkDir, storeFileName)
}

// LockPath returns the run lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.WorkDir, lockFileName)
}

// OutputPath resolves a report file name inside the output directory.
func (c *Config) OutputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.OutputDir, name)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
