package report

import (
	"encoding/json"
	"fmt"

	"github.com/AndreyAkinshin/convtest/internal/fileutil"
	"github.com/AndreyAkinshin/convtest/internal/results"
)

// Document is the on-disk shape of a JSON report.
type Document struct {
	*results.AggregateResult
	DurationMs int64           `json:"duration_ms"`
	Passed     bool            `json:"passed"`
	Summary    results.Summary `json:"summary"`
}

// JSONReporter writes the aggregate result to a file. A path ending in
// ".xz" produces a compressed report.
type JSONReporter struct {
	Path string
}

// NewJSONReporter creates a reporter writing to path.
func NewJSONReporter(path string) *JSONReporter {
	return &JSONReporter{Path: path}
}

// GenerateReport implements the report consumer.
func (r *JSONReporter) GenerateReport(result *results.AggregateResult) error {
	if result == nil {
		return fmt.Errorf("json report: nil result")
	}
	doc := Document{
		AggregateResult: result,
		DurationMs:      result.Duration().Milliseconds(),
		Passed:          result.Passed(),
		Summary:         result.Summary(),
	}

	f, err := fileutil.Create(r.Path)
	if err != nil {
		return fmt.Errorf("json report: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("json report: failed to encode %s: %w", r.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("json report: failed to write %s: %w", r.Path, err)
	}
	return nil
}
