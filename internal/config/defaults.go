package config

// Default configuration values.
const (
	DefaultSamplesDirectory = "samples"
	DefaultSamplesPattern   = "*"
	DefaultFloatTolerance   = 1e-9
	DefaultToleranceMode    = "relative"
	DefaultTimeout          = "60s"
)

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applySamplesDefaults(cfg)
	applyComparisonDefaults(cfg)
	applyExecutionDefaults(cfg)
}

func applySamplesDefaults(cfg *Config) {
	if cfg.Samples == nil {
		cfg.Samples = &SamplesConfig{}
	}
	if cfg.Samples.Directory == "" {
		cfg.Samples.Directory = DefaultSamplesDirectory
	}
	if cfg.Samples.Pattern == "" {
		cfg.Samples.Pattern = DefaultSamplesPattern
	}
}

func applyComparisonDefaults(cfg *Config) {
	if cfg.Comparison == nil {
		cfg.Comparison = &ComparisonConfig{}
	}
	if cfg.Comparison.FloatTolerance == 0 {
		cfg.Comparison.FloatTolerance = DefaultFloatTolerance
	}
	if cfg.Comparison.ToleranceMode == "" {
		cfg.Comparison.ToleranceMode = DefaultToleranceMode
	}
}

func applyExecutionDefaults(cfg *Config) {
	if cfg.Execution == nil {
		cfg.Execution = &ExecutionConfig{}
	}
	if cfg.Execution.Timeout == "" {
		cfg.Execution.Timeout = DefaultTimeout
	}
}
