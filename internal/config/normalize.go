package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeClustering()
	c.normalizeMatching()
	c.normalizeReport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.PeaksFile) == "" {
		if value, ok := os.LookupEnv("INETA_PEAKS_FILE"); ok {
			c.Paths.PeaksFile = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryFile) == "" {
		if value, ok := os.LookupEnv("INETA_LIBRARY_FILE"); ok {
			c.Paths.LibraryFile = strings.TrimSpace(value)
		}
	}

	fields := []struct {
		name     string
		value    *string
		fallback string
	}{
		{"paths.work_dir", &c.Paths.WorkDir, defaultWorkDir},
		{"paths.output_dir", &c.Paths.OutputDir, defaultOutputDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
		{"paths.peaks_file", &c.Paths.PeaksFile, ""},
		{"paths.library_file", &c.Paths.LibraryFile, ""},
	}
	for _, field := range fields {
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			trimmed = field.fallback
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeClustering() {
	c.Cluster.Center = strings.ToLower(strings.TrimSpace(c.Cluster.Center))
	if c.Cluster.Center == "" {
		c.Cluster.Center = defaultCenter
	}
	c.Merge.Select = strings.ToLower(strings.TrimSpace(c.Merge.Select))
	if c.Merge.Select == "" {
		c.Merge.Select = defaultSelect
	}
}

func (c *Config) normalizeMatching() {
	if c.Matching.Workers <= 0 {
		c.Matching.Workers = defaultWorkers
	}
	if len(c.Matching.Metabolites) == 0 {
		c.Matching.Metabolites = nil
		return
	}
	names := make([]string, 0, len(c.Matching.Metabolites))
	seen := make(map[string]struct{}, len(c.Matching.Metabolites))
	for _, name := range c.Matching.Metabolites {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, trimmed)
	}
	if len(names) == 0 {
		names = nil
	}
	c.Matching.Metabolites = names
}

func (c *Config) normalizeReport() {
	c.Report.NetworkFile = strings.TrimSpace(c.Report.NetworkFile)
	if c.Report.NetworkFile == "" {
		c.Report.NetworkFile = defaultNetworkFile
	}
	c.Report.MatchesFile = strings.TrimSpace(c.Report.MatchesFile)
	if c.Report.MatchesFile == "" {
		c.Report.MatchesFile = defaultMatchesFile
	}
	c.Report.SummaryFile = strings.TrimSpace(c.Report.SummaryFile)
	if c.Report.SummaryFile == "" {
		c.Report.SummaryFile = defaultSummaryFile
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
