package config

const (
	defaultConfigPath  = "~/.config/ineta/config.toml"
	projectConfigName  = "ineta.toml"
	storeFileName      = "ineta.db"
	lockFileName       = "ineta.lock"
	defaultWorkDir     = "~/.local/share/ineta/work"
	defaultOutputDir   = "~/.local/share/ineta/output"
	defaultLogDir      = "~/.local/share/ineta/logs"
	defaultCenter      = "mean"
	defaultSelect      = "all"
	defaultPrecision   = 2
	defaultNetworkFile = "networks.txt"
	defaultMatchesFile = "matches.tsv"
	defaultSummaryFile = "summary.txt"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultWorkers     = 4
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Cluster: Cluster{
			CSThreshold: 0.2,
			DQThreshold: 0.2,
			Center:      defaultCenter,
		},
		Merge: Merge{
			LevelDistance: 0.3,
			Select:        defaultSelect,
		},
		Network: Network{
			DQT:   0.4,
			SumXY: 0.5,
			SDT:   0.5,
			CST:   0.3,
		},
		Matching: Matching{
			Ambiguity: 0.5,
			NearTol:   0.3,
			MatchTol:  2,
			TopTol:    0.5,
			HitTol:    0.3,
			CovTol:    0.3,
			Workers:   defaultWorkers,
		},
		Report: Report{
			Precision:   defaultPrecision,
			NetworkFile: defaultNetworkFile,
			MatchesFile: defaultMatchesFile,
			SummaryFile: defaultSummaryFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
