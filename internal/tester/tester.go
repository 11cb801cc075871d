// Package tester runs converter paths against sample inputs and compares
// their outputs. RunTest handles one (test path, compare path) pair over a
// list of inputs; RunAllTests walks every format of a converter graph and
// hands the aggregate result to the registered reporters.
package tester

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AndreyAkinshin/convtest/internal/compare"
	"github.com/AndreyAkinshin/convtest/internal/converter"
	"github.com/AndreyAkinshin/convtest/internal/graph"
	"github.com/AndreyAkinshin/convtest/internal/logging"
	"github.com/AndreyAkinshin/convtest/internal/results"
	"github.com/AndreyAkinshin/convtest/internal/samples"
)

// Executor runs a converter path on one input and decodes the output graph.
type Executor interface {
	Execute(ctx context.Context, path *converter.Path, input samples.Input) (*graph.Graph, error)
}

// SampleProvider supplies inputs per format. Unknown formats have no inputs.
type SampleProvider interface {
	SampleInputs(format string) ([]samples.Input, error)
}

// Reporter consumes the result of a complete run.
type Reporter interface {
	GenerateReport(result *results.AggregateResult) error
}

// Options configures a Tester.
type Options struct {
	Parallel bool            // Run (format, test path) units on a worker pool
	Workers  int             // Pool size; zero reads CONVTEST_PARALLEL, then uses NumCPU
	Formats  []string        // Restrict the run to these formats; empty runs all
	Compare  compare.Options // Value comparison settings for every comparator
	Logger   *slog.Logger    // Nil discards logs
}

// Tester orchestrates test runs.
type Tester struct {
	executor  Executor
	provider  SampleProvider
	reporters []Reporter
	opts      Options
	log       *slog.Logger
}

// New creates a Tester. Reporters are invoked in the given order.
func New(executor Executor, provider SampleProvider, opts Options, reporters ...Reporter) *Tester {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Tester{
		executor:  executor,
		provider:  provider,
		reporters: reporters,
		opts:      opts,
		log:       log,
	}
}

// AddReporter registers another reporter after the existing ones.
func (t *Tester) AddReporter(r Reporter) {
	t.reporters = append(t.reporters, r)
}

// RunTest runs both paths on every input and compares the results, returning
// one outcome per input in input order. A path that fails to produce a graph
// yields an execution failure outcome. Only a comparator error (malformed
// graph) or cancellation of ctx is returned as an error.
func (t *Tester) RunTest(ctx context.Context, cmp compare.Comparator, testPath, comparePath *converter.Path, inputs []samples.Input) ([]results.FileOutcome, error) {
	return t.runTest(ctx, t.log, cmp, testPath, comparePath, inputs)
}

func (t *Tester) runTest(ctx context.Context, log *slog.Logger, cmp compare.Comparator, testPath, comparePath *converter.Path, inputs []samples.Input) ([]results.FileOutcome, error) {
	outcomes := make([]results.FileOutcome, 0, len(inputs))
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		outcome, err := t.runSample(ctx, cmp, testPath, comparePath, input)
		if err != nil {
			return nil, err
		}
		outcome.Label = input.Label
		outcome.DurationMs = time.Since(start).Milliseconds()

		switch outcome.Status {
		case results.StatusExecutionFailure:
			log.Warn("execution failed", "sample", input.Label, "detail", outcome.Detail)
		case results.StatusComparisonFailure:
			log.Debug("sample differs", "sample", input.Label, "detail", outcome.Detail)
		default:
			log.Debug("sample passed", "sample", input.Label)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (t *Tester) runSample(ctx context.Context, cmp compare.Comparator, testPath, comparePath *converter.Path, input samples.Input) (results.FileOutcome, error) {
	testGraph, err := t.executor.Execute(ctx, testPath, input)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return results.FileOutcome{}, ctxErr
		}
		return results.ExecutionFailure(fmt.Sprintf("test path %s: %v", testPath, err)), nil
	}
	refGraph, err := t.executor.Execute(ctx, comparePath, input)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return results.FileOutcome{}, ctxErr
		}
		return results.ExecutionFailure(fmt.Sprintf("compare path %s: %v", comparePath, err)), nil
	}

	outcome, err := cmp.Compare(testGraph, refGraph)
	if err != nil {
		return results.FileOutcome{}, fmt.Errorf("%s: %s comparison of %s against %s: %w",
			input.Label, cmp.Kind(), testPath, comparePath, err)
	}
	return outcome, nil
}

// unit is one (format, test path) pair scheduled for execution.
type unit struct {
	format      string
	testPath    *converter.Path
	comparePath *converter.Path
	inputs      []samples.Input
}

// RunAllTests runs every test path of every format of g, in registration
// order, and passes the aggregate result to each reporter once. Formats
// without a compare path are skipped. A fatal error aborts the run and no
// result is produced. Reporter errors are joined and returned together with
// the result.
func (t *Tester) RunAllTests(ctx context.Context, g *converter.Graph) (*results.AggregateResult, error) {
	runID := uuid.NewString()
	log := t.log.With("run_id", runID)
	ctx = logging.WithRunID(ctx, runID)

	agg := &results.AggregateResult{RunID: runID, StartedAt: time.Now().UTC()}

	units, err := t.plan(log, g)
	if err != nil {
		return nil, err
	}

	pairs := make([]results.PathPairResult, len(units))
	if t.opts.Parallel && len(units) > 1 {
		err = t.runParallel(ctx, log, units, pairs)
	} else {
		err = t.runSequential(ctx, log, units, pairs)
	}
	if err != nil {
		return nil, err
	}

	agg.Results = pairs
	agg.FinishedAt = time.Now().UTC()

	summary := agg.Summary()
	log.Info("run finished",
		"pairs", summary.Pairs,
		"files", summary.Files,
		"passed", summary.Passed,
		"comparison_failures", summary.ComparisonFailures,
		"execution_failures", summary.ExecutionFailures,
		"duration", agg.Duration())

	var errs []error
	for _, r := range t.reporters {
		if err := r.GenerateReport(agg); err != nil {
			errs = append(errs, err)
		}
	}
	return agg, errors.Join(errs...)
}

// plan resolves compare paths and samples for every selected format.
func (t *Tester) plan(log *slog.Logger, g *converter.Graph) ([]unit, error) {
	selected := make(map[string]bool, len(t.opts.Formats))
	for _, f := range t.opts.Formats {
		selected[f] = true
	}

	var units []unit
	for _, format := range g.Formats() {
		if len(selected) > 0 && !selected[format] {
			continue
		}
		testPaths := g.TestPaths(format)
		if len(testPaths) == 0 {
			continue
		}
		comparePath, ok := g.ComparePath(format)
		if !ok {
			log.Warn("skipping format without compare path", "format", format, "test_paths", len(testPaths))
			continue
		}
		inputs, err := t.provider.SampleInputs(format)
		if err != nil {
			return nil, fmt.Errorf("failed to load samples for %s: %w", format, err)
		}
		if len(inputs) == 0 {
			log.Warn("no samples for format", "format", format)
		}
		for _, testPath := range testPaths {
			units = append(units, unit{format: format, testPath: testPath, comparePath: comparePath, inputs: inputs})
		}
	}
	return units, nil
}

func (t *Tester) runUnit(ctx context.Context, log *slog.Logger, u unit) (results.PathPairResult, error) {
	cmp := compare.ForPaths(u.testPath, u.comparePath, t.opts.Compare)
	log = log.With("format", u.format, "test_path", u.testPath.String())
	log.Info("running path pair",
		"compare_path", u.comparePath.String(),
		"comparator", cmp.Kind().String(),
		"samples", len(u.inputs))

	outcomes, err := t.runTest(ctx, log, cmp, u.testPath, u.comparePath, u.inputs)
	if err != nil {
		return results.PathPairResult{}, fmt.Errorf("[%s] %s: %w", u.format, u.testPath, err)
	}
	return results.PathPairResult{
		Format:      u.format,
		TestPath:    u.testPath,
		ComparePath: u.comparePath,
		Comparator:  cmp.Kind().String(),
		Outcomes:    outcomes,
	}, nil
}

func (t *Tester) runSequential(ctx context.Context, log *slog.Logger, units []unit, pairs []results.PathPairResult) error {
	for i, u := range units {
		pair, err := t.runUnit(ctx, log, u)
		if err != nil {
			return err
		}
		pairs[i] = pair
	}
	return nil
}
