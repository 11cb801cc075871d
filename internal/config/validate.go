package config

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

// Validation patterns.
var (
	// Project name: must start with lowercase letter, may contain lowercase, digits, hyphens.
	// Hyphens must not be consecutive or trailing.
	projectNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

	// Converter names may not contain whitespace or "->", which separates chain steps.
	converterNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]+(-[A-Za-z0-9_.]+)*$`)

	// Format names: letters, digits, dots, underscores and hyphens.
	formatNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// maxWorkers bounds execution.workers.
const maxWorkers = 256

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for non-fatal issues.
// A format with test paths but no compare path is a warning: its tests are skipped.
func Validate(cfg *Config) (warnings []string, err error) {
	if err := ValidateProjectName(cfg.Project.Name); err != nil {
		return nil, err
	}
	if err := validateConverters(cfg); err != nil {
		return nil, err
	}
	formatWarnings, err := validateFormats(cfg)
	if err != nil {
		return nil, err
	}
	if err := validateComparison(cfg.Comparison); err != nil {
		return nil, err
	}
	if err := validateExecution(cfg.Execution); err != nil {
		return nil, err
	}
	return formatWarnings, nil
}

func validateConverters(cfg *Config) error {
	for _, name := range sortedKeys(cfg.Converters) {
		conv := cfg.Converters[name]
		if !converterNamePattern.MatchString(name) {
			return &ValidationError{
				Field:   fmt.Sprintf("converters.%s", name),
				Message: "converter name must match pattern ^[A-Za-z0-9_.]+(-[A-Za-z0-9_.]+)*$",
			}
		}
		if conv.In == "" {
			return &ValidationError{Field: fmt.Sprintf("converters.%s.in", name), Message: "is required"}
		}
		if conv.Out == "" {
			return &ValidationError{Field: fmt.Sprintf("converters.%s.out", name), Message: "is required"}
		}
	}
	return nil
}

func validateFormats(cfg *Config) ([]string, error) {
	var warnings []string
	for _, name := range sortedKeys(cfg.Formats) {
		format := cfg.Formats[name]
		if !formatNamePattern.MatchString(name) {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("formats.%s", name),
				Message: "format name must match pattern ^[A-Za-z0-9][A-Za-z0-9._-]*$",
			}
		}
		for i, chain := range format.TestPaths {
			if chain == "" {
				return nil, &ValidationError{
					Field:   fmt.Sprintf("formats.%s.test_paths[%d]", name, i),
					Message: "must not be empty",
				}
			}
		}
		if len(format.TestPaths) > 0 && format.ComparePath == "" {
			warnings = append(warnings, fmt.Sprintf("format %q has test paths but no compare_path; its tests will be skipped", name))
		}
		if len(format.TestPaths) == 0 && format.ComparePath != "" {
			warnings = append(warnings, fmt.Sprintf("format %q has a compare_path but no test paths", name))
		}
	}
	return warnings, nil
}

func validateComparison(c *ComparisonConfig) error {
	if c == nil {
		return nil
	}
	if c.FloatTolerance < 0 {
		return &ValidationError{Field: "comparison.float_tolerance", Message: "must not be negative"}
	}
	switch ToleranceMode(c.ToleranceMode) {
	case "", ToleranceModeRelative, ToleranceModeAbsolute:
	default:
		return &ValidationError{Field: "comparison.tolerance_mode", Message: `must be "relative" or "absolute"`}
	}
	return nil
}

func validateExecution(e *ExecutionConfig) error {
	if e == nil {
		return nil
	}
	if e.Timeout != "" {
		d, err := time.ParseDuration(e.Timeout)
		if err != nil {
			return &ValidationError{Field: "execution.timeout", Message: fmt.Sprintf("invalid duration %q", e.Timeout)}
		}
		if d <= 0 {
			return &ValidationError{Field: "execution.timeout", Message: "must be positive"}
		}
	}
	if e.Workers < 0 || e.Workers > maxWorkers {
		return &ValidationError{Field: "execution.workers", Message: fmt.Sprintf("must be between 0 and %d", maxWorkers)}
	}
	return nil
}

// ValidateProjectName checks if a project name is valid.
// Returns a ValidationError if the name is empty, too long (>128 chars),
// or doesn't match the required pattern.
func ValidateProjectName(name string) error {
	if name == "" {
		return &ValidationError{Field: "project.name", Message: "is required"}
	}
	if len(name) > 128 {
		return &ValidationError{Field: "project.name", Message: "must be 128 characters or less"}
	}
	if !projectNamePattern.MatchString(name) {
		return &ValidationError{
			Field:   "project.name",
			Message: "must match pattern ^[a-z][a-z0-9]*(-[a-z0-9]+)*$ (lowercase letters, digits, non-consecutive hyphens)",
		}
	}
	return nil
}

// TimeoutDuration returns the parsed per-step timeout, or zero when unset or invalid.
func (e *ExecutionConfig) TimeoutDuration() time.Duration {
	if e == nil || e.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0
	}
	return d
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
