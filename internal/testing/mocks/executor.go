package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/AndreyAkinshin/convtest/internal/converter"
	"github.com/AndreyAkinshin/convtest/internal/graph"
	"github.com/AndreyAkinshin/convtest/internal/samples"
)

// ExecCall records one Execute invocation.
type ExecCall struct {
	Path  string // Chain syntax, e.g. "a -> b"
	Label string
}

type execResult struct {
	graph *graph.Graph
	err   error
}

// Executor implements the converter-path executor for testing.
// Results are keyed by path chain and sample label; use NewExecutor() and
// the With* methods to configure them.
type Executor struct {
	results    map[string]execResult
	byLabel    map[string]execResult
	defaultRes *execResult

	// ExecFunc, if set, is called when no configured result matches.
	ExecFunc func(ctx context.Context, path *converter.Path, input samples.Input) (*graph.Graph, error)

	mu    sync.Mutex
	calls []ExecCall
}

// NewExecutor creates an executor with no configured results.
func NewExecutor() *Executor {
	return &Executor{
		results: make(map[string]execResult),
		byLabel: make(map[string]execResult),
	}
}

func key(path, label string) string { return path + "\x00" + label }

// WithGraph makes path return g for the sample with the given label.
func (m *Executor) WithGraph(path, label string, g *graph.Graph) *Executor {
	m.results[key(path, label)] = execResult{graph: g}
	return m
}

// WithError makes path fail for the sample with the given label.
func (m *Executor) WithError(path, label string, err error) *Executor {
	m.results[key(path, label)] = execResult{err: err}
	return m
}

// WithSampleGraph makes every path return g for the sample with the given label.
func (m *Executor) WithSampleGraph(label string, g *graph.Graph) *Executor {
	m.byLabel[label] = execResult{graph: g}
	return m
}

// WithDefault makes every unconfigured call return g.
func (m *Executor) WithDefault(g *graph.Graph) *Executor {
	m.defaultRes = &execResult{graph: g}
	return m
}

// WithExecFunc sets the fallback function.
func (m *Executor) WithExecFunc(fn func(ctx context.Context, path *converter.Path, input samples.Input) (*graph.Graph, error)) *Executor {
	m.ExecFunc = fn
	return m
}

// Execute returns the configured result. Returned graphs are clones.
func (m *Executor) Execute(ctx context.Context, path *converter.Path, input samples.Input) (*graph.Graph, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ExecCall{Path: path.String(), Label: input.Label})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res, ok := m.results[key(path.String(), input.Label)]; ok {
		return res.clone()
	}
	if res, ok := m.byLabel[input.Label]; ok {
		return res.clone()
	}
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, path, input)
	}
	if m.defaultRes != nil {
		return m.defaultRes.clone()
	}
	return nil, fmt.Errorf("mock executor: no result for %s on %s", path, input.Label)
}

func (r execResult) clone() (*graph.Graph, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.graph.Clone(), nil
}

// Calls returns a copy of the recorded calls in invocation order.
func (m *Executor) Calls() []ExecCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]ExecCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns the number of Execute calls.
func (m *Executor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
