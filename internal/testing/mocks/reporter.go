package mocks

import (
	"sync"

	"github.com/AndreyAkinshin/convtest/internal/results"
)

// CallLog records named events from several doubles in one shared order.
type CallLog struct {
	mu     sync.Mutex
	events []string
}

// Record appends an event.
func (l *CallLog) Record(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

// Events returns a copy of the recorded events.
func (l *CallLog) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := make([]string, len(l.events))
	copy(events, l.events)
	return events
}

// Reporter implements the report consumer for testing.
type Reporter struct {
	name string
	err  error
	log  *CallLog

	mu      sync.Mutex
	reports []*results.AggregateResult
}

// NewReporter creates a reporter that accepts every result.
func NewReporter(name string) *Reporter {
	return &Reporter{name: name}
}

// WithError makes GenerateReport fail with err.
func (m *Reporter) WithError(err error) *Reporter {
	m.err = err
	return m
}

// WithLog records the reporter's name in log on every call.
func (m *Reporter) WithLog(log *CallLog) *Reporter {
	m.log = log
	return m
}

// GenerateReport records the result.
func (m *Reporter) GenerateReport(result *results.AggregateResult) error {
	m.mu.Lock()
	m.reports = append(m.reports, result)
	m.mu.Unlock()
	if m.log != nil {
		m.log.Record(m.name)
	}
	return m.err
}

// Reports returns the results received, in order.
func (m *Reporter) Reports() []*results.AggregateResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	reports := make([]*results.AggregateResult, len(m.reports))
	copy(reports, m.reports)
	return reports
}
