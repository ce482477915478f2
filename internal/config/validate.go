package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCluster(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateNetwork(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateCluster() error {
	if err := positive("cluster.cs_threshold", c.Cluster.CSThreshold); err != nil {
		return err
	}
	if err := positive("cluster.dq_threshold", c.Cluster.DQThreshold); err != nil {
		return err
	}
	switch c.Cluster.Center {
	case "mean", "median":
	default:
		return fmt.Errorf("cluster.center must be mean or median, got %q", c.Cluster.Center)
	}
	return nil
}

func (c *Config) validateMerge() error {
	if err := positive("merge.level_distance", c.Merge.LevelDistance); err != nil {
		return err
	}
	switch c.Merge.Select {
	case "all", "last":
	default:
		return fmt.Errorf("merge.select must be all or last, got %q", c.Merge.Select)
	}
	return nil
}

func (c *Config) validateNetwork() error {
	if err := positive("network.dqt", c.Network.DQT); err != nil {
		return err
	}
	if err := nonNegative("network.sum_xy", c.Network.SumXY); err != nil {
		return err
	}
	if err := nonNegative("network.sdt", c.Network.SDT); err != nil {
		return err
	}
	return positive("network.cst", c.Network.CST)
}

func (c *Config) validateMatching() error {
	if math.IsNaN(c.Matching.Ambiguity) || c.Matching.Ambiguity < 0 || c.Matching.Ambiguity > 1 {
		return errors.New("matching.ambiguity must be between 0 and 1")
	}
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"matching.near_tol", c.Matching.NearTol},
		{"matching.top_tol", c.Matching.TopTol},
		{"matching.hit_tol", c.Matching.HitTol},
		{"matching.cov_tol", c.Matching.CovTol},
	} {
		if err := nonNegative(field.name, field.value); err != nil {
			return err
		}
	}
	if c.Matching.MatchTol < 0 {
		return errors.New("matching.match_tol must be >= 0")
	}
	if c.Matching.Workers < 1 {
		return errors.New("matching.workers must be >= 1")
	}
	return nil
}

func (c *Config) validateReport() error {
	if c.Report.Precision < 0 || c.Report.Precision > 6 {
		return fmt.Errorf("report.precision must be between 0 and 6, got %d", c.Report.Precision)
	}
	return nil
}

func positive(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Errorf("%s must be a finite value > 0 (ppm), got %v", name, value)
	}
	return nil
}

func nonNegative(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("%s must be a finite value >= 0, got %v", name, value)
	}
	return nil
}
