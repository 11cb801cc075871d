// Package config provides configuration loading and validation for .convtest/config.yaml.
package config

// Config represents the complete convtest configuration.
type Config struct {
	Project    ProjectConfig              `json:"project"`
	Converters map[string]ConverterConfig `json:"converters,omitempty"`
	Formats    map[string]FormatConfig    `json:"formats,omitempty"`
	Samples    *SamplesConfig             `json:"samples,omitempty"`
	Comparison *ComparisonConfig          `json:"comparison,omitempty"`
	Execution  *ExecutionConfig           `json:"execution,omitempty"`
	Reports    *ReportsConfig             `json:"reports,omitempty"`
}

// ProjectConfig contains project metadata.
type ProjectConfig struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ConverterConfig defines a single conversion step from one format to another.
type ConverterConfig struct {
	In           string            `json:"in"`
	Out          string            `json:"out"`
	Command      string            `json:"command,omitempty"` // Empty command copies the input unchanged
	Lossy        bool              `json:"lossy,omitempty"`
	PreservesIDs bool              `json:"preserves_ids,omitempty"`
	Vars         map[string]string `json:"vars,omitempty"`
	Env          map[string]string `json:"env,omitempty"`
}

// FormatConfig registers the test paths and the compare path for one input format.
// Paths are converter chains written as "a -> b -> c".
type FormatConfig struct {
	TestPaths   []string `json:"test_paths,omitempty"`
	ComparePath string   `json:"compare_path,omitempty"`
}

// SamplesConfig locates sample input files. Samples for format F live in <directory>/F/.
type SamplesConfig struct {
	Directory string `json:"directory,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
}

// ComparisonConfig tunes graph comparison.
type ComparisonConfig struct {
	FloatTolerance   float64  `json:"float_tolerance,omitempty"`
	ToleranceMode    string   `json:"tolerance_mode,omitempty"` // "relative" or "absolute"
	IgnoreAttributes []string `json:"ignore_attributes,omitempty"`
}

// ExecutionConfig controls how converter paths run.
type ExecutionConfig struct {
	Timeout  string `json:"timeout,omitempty"` // Per conversion step, Go duration syntax
	Parallel bool   `json:"parallel,omitempty"`
	Workers  int    `json:"workers,omitempty"`
	WorkDir  string `json:"work_dir,omitempty"` // Base for temporary directories (default: system temp)
}

// ReportsConfig configures report consumers.
type ReportsConfig struct {
	JSON string `json:"json,omitempty"` // JSON report path; ".xz" suffix compresses
}

// ToleranceMode represents how float comparison tolerance is applied.
type ToleranceMode string

const (
	// ToleranceModeRelative uses relative tolerance (fraction of the expected value).
	ToleranceModeRelative ToleranceMode = "relative"
	// ToleranceModeAbsolute uses absolute tolerance.
	ToleranceModeAbsolute ToleranceMode = "absolute"
)
