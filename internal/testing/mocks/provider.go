package mocks

import (
	"sync"

	"github.com/AndreyAkinshin/convtest/internal/samples"
)

// Provider implements the sample input provider for testing.
type Provider struct {
	inputs map[string][]samples.Input
	errs   map[string]error

	mu       sync.Mutex
	requests []string
}

// NewProvider creates a provider with no samples.
func NewProvider() *Provider {
	return &Provider{
		inputs: make(map[string][]samples.Input),
		errs:   make(map[string]error),
	}
}

// WithSamples registers samples for format, one per label. Paths are "<format>/<label>".
func (m *Provider) WithSamples(format string, labels ...string) *Provider {
	for _, label := range labels {
		m.inputs[format] = append(m.inputs[format], samples.NewInput(format+"/"+label, format, label))
	}
	return m
}

// WithInputs registers ready-made inputs for format.
func (m *Provider) WithInputs(format string, inputs ...samples.Input) *Provider {
	m.inputs[format] = append(m.inputs[format], inputs...)
	return m
}

// WithError makes SampleInputs fail for format.
func (m *Provider) WithError(format string, err error) *Provider {
	m.errs[format] = err
	return m
}

// SampleInputs returns the registered samples; unknown formats have none.
func (m *Provider) SampleInputs(format string) ([]samples.Input, error) {
	m.mu.Lock()
	m.requests = append(m.requests, format)
	m.mu.Unlock()

	if err := m.errs[format]; err != nil {
		return nil, err
	}
	inputs := make([]samples.Input, len(m.inputs[format]))
	copy(inputs, m.inputs[format])
	return inputs, nil
}

// Requests returns the formats requested, in order.
func (m *Provider) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	requests := make([]string, len(m.requests))
	copy(requests, m.requests)
	return requests
}
