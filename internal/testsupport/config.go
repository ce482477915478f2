package testsupport

import (
	"path/filepath"
	"testing"

	"ineta/internal/config"
	"ineta/internal/library"
	"ineta/internal/peaks"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.PeaksFile = filepath.Join(base, "input", "peaks.json")
	cfgVal.Paths.LibraryFile = filepath.Join(base, "input", "library.json")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithPeaks writes levels to the configured peaks file.
func WithPeaks(levels peaks.Levels) ConfigOption {
	return func(b *configBuilder) {
		WritePeaks(b.t, b.cfg.Paths.PeaksFile, levels)
	}
}

// WithLibrary writes entries to the configured library file.
func WithLibrary(entries ...library.Entry) ConfigOption {
	return func(b *configBuilder) {
		WriteLibrary(b.t, b.cfg.Paths.LibraryFile, entries)
	}
}

// WithIncludeSingletons toggles one-point networks.
func WithIncludeSingletons(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Network.IncludeSingletons = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
