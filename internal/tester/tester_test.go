package tester

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/convtest/internal/compare"
	"github.com/AndreyAkinshin/convtest/internal/converter"
	"github.com/AndreyAkinshin/convtest/internal/graph"
	"github.com/AndreyAkinshin/convtest/internal/results"
	"github.com/AndreyAkinshin/convtest/internal/samples"
	"github.com/AndreyAkinshin/convtest/internal/testing/mocks"
)

func step(name, in string, lossy, preservesIDs bool) converter.Converter {
	return converter.Converter{Name: name, In: in, Out: graph.FormatJSON, Lossy: lossy, PreservesIDs: preservesIDs}
}

func pathOf(name, in string, lossy, preservesIDs bool) *converter.Path {
	return converter.MustPath(step(name, in, lossy, preservesIDs))
}

func sample() *graph.Graph {
	return graph.New(true).
		AddNode("n1", map[string]any{"label": "one"}).
		AddNode("n2", map[string]any{"label": "two"}).
		AddEdge("n1", "n2", nil)
}

func mustGraph(t *testing.T, entries ...func(g *converter.Graph) error) *converter.Graph {
	t.Helper()
	g := converter.NewGraph()
	for _, e := range entries {
		if err := e(g); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func testPath(format string, p *converter.Path) func(*converter.Graph) error {
	return func(g *converter.Graph) error { return g.AddTestPath(format, p) }
}

func comparePath(format string, p *converter.Path) func(*converter.Graph) error {
	return func(g *converter.Graph) error { return g.SetComparePath(format, p) }
}

func TestRunTest_OneOutcomePerInputInOrder(t *testing.T) {
	t.Parallel()
	test := pathOf("t", "X", false, true)
	cmp := pathOf("c", "X", false, true)

	exec := mocks.NewExecutor().
		WithDefault(sample()).
		WithError("t", "f2", errors.New("converter crashed")).
		WithError("c", "f4", errors.New("reference crashed"))

	inputs := []samples.Input{
		samples.NewInput("f1", "X", ""),
		samples.NewInput("f2", "X", ""),
		samples.NewInput("f3", "X", ""),
		samples.NewInput("f4", "X", ""),
		samples.NewInput("f5", "X", ""),
	}

	tr := New(exec, mocks.NewProvider(), Options{})
	c, _ := compare.New(compare.KindIdsPreserved, compare.DefaultOptions())
	outcomes, err := tr.RunTest(context.Background(), c, test, cmp, inputs)
	if err != nil {
		t.Fatalf("RunTest() error = %v", err)
	}
	if len(outcomes) != len(inputs) {
		t.Fatalf("len(outcomes) = %d, want %d", len(outcomes), len(inputs))
	}

	wantPassed := []bool{true, false, true, false, true}
	for i, o := range outcomes {
		if o.Label != inputs[i].Label {
			t.Errorf("outcomes[%d].Label = %q, want %q", i, o.Label, inputs[i].Label)
		}
		if o.Passed != wantPassed[i] {
			t.Errorf("outcomes[%d].Passed = %v, want %v", i, o.Passed, wantPassed[i])
		}
	}
	if outcomes[1].Status != results.StatusExecutionFailure ||
		!strings.HasPrefix(outcomes[1].Detail, "execution failed: test path t") ||
		!strings.Contains(outcomes[1].Detail, "converter crashed") {
		t.Errorf("outcomes[1] = %+v", outcomes[1])
	}
	if !strings.HasPrefix(outcomes[3].Detail, "execution failed: compare path c") {
		t.Errorf("outcomes[3].Detail = %q", outcomes[3].Detail)
	}
}

func TestRunTest_MalformedGraphIsFatal(t *testing.T) {
	t.Parallel()
	bad := graph.New(true).AddNode("a", nil).AddEdge("a", "missing", nil)
	exec := mocks.NewExecutor().WithDefault(sample()).WithGraph("t", "f2", bad)

	tr := New(exec, mocks.NewProvider(), Options{})
	c, _ := compare.New(compare.KindIdsPreserved, compare.DefaultOptions())
	inputs := []samples.Input{samples.NewInput("f1", "X", ""), samples.NewInput("f2", "X", "")}

	outcomes, err := tr.RunTest(context.Background(), c, pathOf("t", "X", false, true), pathOf("c", "X", false, true), inputs)
	if !errors.Is(err, graph.ErrMalformed) {
		t.Fatalf("RunTest() error = %v, want ErrMalformed", err)
	}
	if outcomes != nil {
		t.Errorf("outcomes = %v, want nil", outcomes)
	}
	if !strings.Contains(err.Error(), "f2") {
		t.Errorf("error = %q, want sample label", err)
	}
}

func TestRunTest_CancelledContextIsFatal(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	exec := mocks.NewExecutor().WithExecFunc(func(context.Context, *converter.Path, samples.Input) (*graph.Graph, error) {
		cancel()
		return nil, errors.New("killed")
	})

	tr := New(exec, mocks.NewProvider(), Options{})
	c, _ := compare.New(compare.KindIdsPreserved, compare.DefaultOptions())
	_, err := tr.RunTest(ctx, c, pathOf("t", "X", false, true), pathOf("c", "X", false, true),
		[]samples.Input{samples.NewInput("f1", "X", "")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunTest() error = %v, want context.Canceled", err)
	}
}

func TestRunAllTests_SkipsFormatWithoutComparePath(t *testing.T) {
	t.Parallel()
	g := mustGraph(t,
		testPath("A", pathOf("a1", "A", false, true)),
		testPath("A", pathOf("a2", "A", false, true)),
		comparePath("A", pathOf("ac", "A", false, true)),
		testPath("B", pathOf("b1", "B", false, true)),
	)
	provider := mocks.NewProvider().WithSamples("A", "fa").WithSamples("B", "fb")
	exec := mocks.NewExecutor().WithDefault(sample())

	agg, err := New(exec, provider, Options{}).RunAllTests(context.Background(), g)
	if err != nil {
		t.Fatalf("RunAllTests() error = %v", err)
	}
	if len(agg.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(agg.Results))
	}
	for i, want := range []string{"a1", "a2"} {
		r := agg.Results[i]
		if r.Format != "A" || r.TestPath.String() != want || r.ComparePath.String() != "ac" {
			t.Errorf("Results[%d] = %s %s vs %s", i, r.Format, r.TestPath, r.ComparePath)
		}
	}
	if got := provider.Requests(); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("provider requests = %v, want only A", got)
	}
	for _, call := range exec.Calls() {
		if call.Label == "fb" {
			t.Errorf("format B was executed: %+v", call)
		}
	}
}

func TestRunAllTests_EndToEndPass(t *testing.T) {
	t.Parallel()
	g := mustGraph(t,
		testPath("X", pathOf("test", "X", false, true)),
		comparePath("X", pathOf("ref", "X", false, true)),
	)
	provider := mocks.NewProvider().WithSamples("X", "f1")
	exec := mocks.NewExecutor().WithSampleGraph("f1", sample())

	agg, err := New(exec, provider, Options{}).RunAllTests(context.Background(), g)
	if err != nil {
		t.Fatalf("RunAllTests() error = %v", err)
	}
	if len(agg.Results) != 1 || len(agg.Results[0].Outcomes) != 1 {
		t.Fatalf("Results = %+v, want one pair with one outcome", agg.Results)
	}
	o := agg.Results[0].Outcomes[0]
	if !o.Passed || o.Label != "f1" || o.Detail != "" {
		t.Errorf("outcome = %+v, want passing f1", o)
	}
	if agg.Results[0].Comparator != compare.KindIdsPreserved.String() {
		t.Errorf("Comparator = %q", agg.Results[0].Comparator)
	}
	if agg.RunID == "" || agg.FinishedAt.Before(agg.StartedAt) {
		t.Errorf("RunID = %q, StartedAt = %v, FinishedAt = %v", agg.RunID, agg.StartedAt, agg.FinishedAt)
	}
	if !agg.Passed() {
		t.Error("Passed() = false")
	}
}

func TestRunAllTests_EndToEndMissingNode(t *testing.T) {
	t.Parallel()
	g := mustGraph(t,
		testPath("X", pathOf("test", "X", false, true)),
		comparePath("X", pathOf("ref", "X", false, true)),
	)
	missing := sample()
	missing.Nodes = missing.Nodes[:1]
	missing.Edges = nil

	provider := mocks.NewProvider().WithSamples("X", "f1")
	exec := mocks.NewExecutor().
		WithGraph("test", "f1", missing).
		WithGraph("ref", "f1", sample())

	agg, err := New(exec, provider, Options{}).RunAllTests(context.Background(), g)
	if err != nil {
		t.Fatalf("RunAllTests() error = %v", err)
	}
	o := agg.Results[0].Outcomes[0]
	if o.Passed {
		t.Fatal("outcome passed, want failure")
	}
	if !strings.Contains(o.Detail, `missing node "n2"`) {
		t.Errorf("Detail = %q, want missing node n2", o.Detail)
	}
	if s := agg.Summary(); s.ComparisonFailures != 1 || s.FailedPairs != 1 {
		t.Errorf("Summary() = %+v", s)
	}
}

func TestRunAllTests_SelectsComparatorPerPair(t *testing.T) {
	t.Parallel()
	g := mustGraph(t,
		testPath("X", pathOf("exact", "X", false, true)),
		testPath("X", pathOf("renumbering", "X", false, false)),
		testPath("X", pathOf("lossy", "X", true, true)),
		comparePath("X", pathOf("ref", "X", true, true)),
	)
	provider := mocks.NewProvider().WithSamples("X", "f1")
	exec := mocks.NewExecutor().WithDefault(sample())

	agg, err := New(exec, provider, Options{}).RunAllTests(context.Background(), g)
	if err != nil {
		t.Fatalf("RunAllTests() error = %v", err)
	}
	want := []string{"ids_preserved", "ids_not_preserved", "lossy"}
	for i, r := range agg.Results {
		if r.Comparator != want[i] {
			t.Errorf("Results[%d].Comparator = %q, want %q", i, r.Comparator, want[i])
		}
	}
}

func TestRunAllTests_FormatFilter(t *testing.T) {
	t.Parallel()
	g := mustGraph(t,
		testPath("A", pathOf("a", "A", false, true)),
		comparePath("A", pathOf("ac", "A", false, true)),
		testPath("B", pathOf("b", "B", false, true)),
		comparePath("B", pathOf("bc", "B", false, true)),
	)
	provider := mocks.NewProvider().WithSamples("A", "fa").WithSamples("B", "fb")

	agg, err := New(mocks.NewExecutor().WithDefault(sample()), provider, Options{Formats: []string{"B"}}).
		RunAllTests(context.Background(), g)
	if err != nil {
		t.Fatalf("RunAllTests() error = %v", err)
	}
	if len(agg.Results) != 1 || agg.Results[0].Format != "B" {
		t.Errorf("Results = %+v, want only B", agg.Results)
	}
}

func TestRunAllTests_ProviderErrorIsFatal(t *testing.T) {
	t.Parallel()
	g := mustGraph(t,
		testPath("X", pathOf("t", "X", false, true)),
		comparePath("X", pathOf("c", "X", false, true)),
	)
	reporter := mocks.NewReporter("r")
	provider := mocks.NewProvider().WithError("X", errors.New("disk gone"))

	agg, err := New(mocks.NewExecutor(), provider, Options{}, reporter).RunAllTests(context.Background(), g)
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("RunAllTests() error = %v, want provider error", err)
	}
	if agg != nil {
		t.Error("result returned despite fatal error")
	}
	if len(reporter.Reports()) != 0 {
		t.Error("reporter invoked despite fatal error")
	}
}

func TestRunAllTests_MalformedGraphAborts(t *testing.T) {
	t.Parallel()
	for _, parallel := range []bool{false, true} {
		g := mustGraph(t,
			testPath("X", pathOf("good", "X", false, true)),
			testPath("X", pathOf("bad", "X", false, true)),
			comparePath("X", pathOf("ref", "X", false, true)),
		)
		reporter := mocks.NewReporter("r")
		exec := mocks.NewExecutor().
			WithDefault(sample()).
			WithGraph("bad", "f1", graph.New(true).AddNode("", nil))
		provider := mocks.NewProvider().WithSamples("X", "f1")

		agg, err := New(exec, provider, Options{Parallel: parallel, Workers: 2}, reporter).RunAllTests(context.Background(), g)
		if !errors.Is(err, graph.ErrMalformed) {
			t.Errorf("parallel=%v: error = %v, want ErrMalformed", parallel, err)
		}
		if agg != nil || len(reporter.Reports()) != 0 {
			t.Errorf("parallel=%v: result or report produced despite fatal error", parallel)
		}
	}
}

func TestRunAllTests_ReportersInOrderOnce(t *testing.T) {
	t.Parallel()
	g := mustGraph(t,
		testPath("X", pathOf("t", "X", false, true)),
		comparePath("X", pathOf("c", "X", false, true)),
	)
	log := &mocks.CallLog{}
	first := mocks.NewReporter("first").WithLog(log).WithError(errors.New("first broke"))
	second := mocks.NewReporter("second").WithLog(log)
	third := mocks.NewReporter("third").WithLog(log).WithError(errors.New("third broke"))

	tr := New(mocks.NewExecutor().WithDefault(sample()), mocks.NewProvider().WithSamples("X", "f1"), Options{}, first, second)
	tr.AddReporter(third)

	agg, err := tr.RunAllTests(context.Background(), g)
	if agg == nil {
		t.Fatal("result is nil despite only reporter errors")
	}
	if err == nil || !strings.Contains(err.Error(), "first broke") || !strings.Contains(err.Error(), "third broke") {
		t.Errorf("error = %v, want joined reporter errors", err)
	}
	if got := log.Events(); !reflect.DeepEqual(got, []string{"first", "second", "third"}) {
		t.Errorf("reporter order = %v", got)
	}
	for _, r := range []*mocks.Reporter{first, second, third} {
		if reports := r.Reports(); len(reports) != 1 || reports[0] != agg {
			t.Errorf("reporter received %d reports, want the aggregate once", len(reports))
		}
	}
}

func TestRunAllTests_EmptyGraph(t *testing.T) {
	t.Parallel()
	reporter := mocks.NewReporter("r")
	agg, err := New(mocks.NewExecutor(), mocks.NewProvider(), Options{}, reporter).
		RunAllTests(context.Background(), converter.NewGraph())
	if err != nil {
		t.Fatalf("RunAllTests() error = %v", err)
	}
	if len(agg.Results) != 0 || len(reporter.Reports()) != 1 {
		t.Errorf("Results = %v, reports = %d", agg.Results, len(reporter.Reports()))
	}
}
