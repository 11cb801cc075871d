// Package results defines the value objects produced by a test run: one
// FileOutcome per sample, one PathPairResult per (test path, compare path)
// pair, and the AggregateResult handed to report consumers.
package results

import (
	"time"

	"github.com/AndreyAkinshin/convtest/internal/converter"
)

// Status classifies a FileOutcome.
type Status string

const (
	// StatusPassed means the two converted graphs were equivalent.
	StatusPassed Status = "pass"
	// StatusComparisonFailure means the graphs differ under the active comparator.
	StatusComparisonFailure Status = "comparison_failure"
	// StatusExecutionFailure means a converter path failed to produce a graph.
	StatusExecutionFailure Status = "execution_failure"
)

// FileOutcome is the verdict for one sample file under one path pair.
type FileOutcome struct {
	Label      string `json:"label"`
	Passed     bool   `json:"passed"`
	Status     Status `json:"status"`
	Detail     string `json:"detail,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Pass returns a passing outcome.
func Pass() FileOutcome {
	return FileOutcome{Passed: true, Status: StatusPassed}
}

// ComparisonFailure returns a failed outcome describing a graph difference.
func ComparisonFailure(detail string) FileOutcome {
	return FileOutcome{Status: StatusComparisonFailure, Detail: detail}
}

// ExecutionFailure returns a failed outcome describing a conversion error.
func ExecutionFailure(detail string) FileOutcome {
	return FileOutcome{Status: StatusExecutionFailure, Detail: "execution failed: " + detail}
}

// PathPairResult holds the outcomes of running one test path against its compare path.
type PathPairResult struct {
	Format      string          `json:"format"`
	TestPath    *converter.Path `json:"test_path"`
	ComparePath *converter.Path `json:"compare_path"`
	Comparator  string          `json:"comparator"`
	Outcomes    []FileOutcome   `json:"outcomes"`
}

// Passed reports whether every outcome passed. A pair with no samples passes.
func (r *PathPairResult) Passed() bool {
	for _, o := range r.Outcomes {
		if !o.Passed {
			return false
		}
	}
	return true
}

// Failures returns the failed outcomes in order.
func (r *PathPairResult) Failures() []FileOutcome {
	var failed []FileOutcome
	for _, o := range r.Outcomes {
		if !o.Passed {
			failed = append(failed, o)
		}
	}
	return failed
}

// AggregateResult is the sole artifact of a full run.
type AggregateResult struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Results    []PathPairResult `json:"results"`
}

// Summary holds outcome counts across an AggregateResult.
type Summary struct {
	Pairs              int `json:"pairs"`
	FailedPairs        int `json:"failed_pairs"`
	Files              int `json:"files"`
	Passed             int `json:"passed"`
	ComparisonFailures int `json:"comparison_failures"`
	ExecutionFailures  int `json:"execution_failures"`
}

// Failed returns the number of failed outcomes.
func (s Summary) Failed() int {
	return s.ComparisonFailures + s.ExecutionFailures
}

// Summary counts outcomes by status.
func (a *AggregateResult) Summary() Summary {
	s := Summary{Pairs: len(a.Results)}
	for i := range a.Results {
		r := &a.Results[i]
		if !r.Passed() {
			s.FailedPairs++
		}
		for _, o := range r.Outcomes {
			s.Files++
			switch {
			case o.Passed:
				s.Passed++
			case o.Status == StatusExecutionFailure:
				s.ExecutionFailures++
			default:
				s.ComparisonFailures++
			}
		}
	}
	return s
}

// Passed reports whether every outcome of every pair passed.
func (a *AggregateResult) Passed() bool {
	return a.Summary().Failed() == 0
}

// Duration returns the wall-clock duration of the run.
func (a *AggregateResult) Duration() time.Duration {
	return a.FinishedAt.Sub(a.StartedAt)
}
