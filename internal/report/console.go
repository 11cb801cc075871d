package report

import (
	"fmt"
	"time"

	"github.com/AndreyAkinshin/convtest/internal/converter"
	"github.com/AndreyAkinshin/convtest/internal/output"
	"github.com/AndreyAkinshin/convtest/internal/results"
)

// ConsoleReporter prints per-pair outcomes and a run summary.
type ConsoleReporter struct {
	out *output.Writer
}

// NewConsoleReporter creates a reporter printing through out.
func NewConsoleReporter(out *output.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// GenerateReport implements the report consumer.
func (r *ConsoleReporter) GenerateReport(result *results.AggregateResult) error {
	if result == nil {
		return fmt.Errorf("console report: nil result")
	}
	out := r.out

	format := ""
	for i := range result.Results {
		pair := &result.Results[i]
		if i == 0 || pair.Format != format {
			format = pair.Format
			out.Section("[" + format + "]")
		}
		out.PairHeader(pathString(pair.TestPath), pathString(pair.ComparePath), DisplayName(pair.Comparator))
		if len(pair.Outcomes) == 0 {
			out.Hint("    no samples")
			continue
		}
		for _, o := range pair.Outcomes {
			d := FormatDuration(time.Duration(o.DurationMs) * time.Millisecond)
			detail := o.Detail
			if !o.Passed && detail != "" && o.Status != results.StatusExecutionFailure {
				detail = DisplayName(string(o.Status)) + ": " + detail
			}
			out.Outcome(o.Label, o.Passed, d, detail)
		}
	}

	s := result.Summary()
	out.SummaryHeader("Test Summary")
	out.SummaryItem("Path pairs", fmt.Sprintf("%d", s.Pairs), output.Neutral)
	out.SummaryItem("Samples", fmt.Sprintf("%d", s.Files), output.Neutral)
	out.SummaryItem("Passed", fmt.Sprintf("%d", s.Passed), output.Good)
	if s.ComparisonFailures > 0 {
		out.SummaryItem(DisplayName(string(results.StatusComparisonFailure))+"s", fmt.Sprintf("%d", s.ComparisonFailures), output.Bad)
	}
	if s.ExecutionFailures > 0 {
		out.SummaryItem(DisplayName(string(results.StatusExecutionFailure))+"s", fmt.Sprintf("%d", s.ExecutionFailures), output.Bad)
	}
	out.SummaryItem("Duration", FormatDuration(result.Duration()), output.Neutral)

	if s.Failed() == 0 {
		out.Verdict(true, "All %d samples passed.", s.Files)
	} else {
		out.Verdict(false, "%d of %d samples failed in %d of %d path pairs.", s.Failed(), s.Files, s.FailedPairs, s.Pairs)
	}
	return nil
}

func pathString(p *converter.Path) string {
	if p == nil {
		return "-"
	}
	return p.String()
}
