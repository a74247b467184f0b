// Package testutil provides test utilities and helpers for syncmail tests.
package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/syncmail/syncmail/internal/runner"
)

// CallRecord records a single runner call with metadata.
type CallRecord struct {
	Name      string
	Args      []string
	Timestamp time.Time
	Result    runner.Result
	Error     error
}

// MockRunnerBuilder provides a fluent API for configuring mock runner behavior.
// Responses are queued per command name; the last queued response for a
// command is reused once the queue is exhausted.
type MockRunnerBuilder struct {
	responses map[string][]mockResponse
	calls     []CallRecord
	started   map[string]int
	inFlight  int
	maxFlight int
	mu        sync.Mutex
	t         *testing.T
}

type mockResponse struct {
	result      runner.Result
	responseErr error
	delay       time.Duration
	gate        <-chan struct{}
}

// NewMockRunnerBuilder creates a new MockRunnerBuilder for configuring mock behavior.
func NewMockRunnerBuilder(t *testing.T) *MockRunnerBuilder {
	t.Helper()

	return &MockRunnerBuilder{
		responses: make(map[string][]mockResponse),
		calls:     make([]CallRecord, 0),
		started:   make(map[string]int),
		t:         t,
	}
}

// WithOutput queues a successful run of name with the given output.
func (b *MockRunnerBuilder) WithOutput(name, stdout, stderr string) *MockRunnerBuilder {
	b.responses[name] = append(b.responses[name], mockResponse{
		result: runner.Result{Stdout: []byte(stdout), Stderr: []byte(stderr)},
	})
	return b
}

// WithExitCode sets the exit code of the last queued response for name.
func (b *MockRunnerBuilder) WithExitCode(name string, code int) *MockRunnerBuilder {
	if r := b.last(name); r != nil {
		r.result.ExitCode = code
	}
	return b
}

// WithError queues a start failure for name.
func (b *MockRunnerBuilder) WithError(name string, err error) *MockRunnerBuilder {
	b.responses[name] = append(b.responses[name], mockResponse{
		result:      runner.Result{ExitCode: -1},
		responseErr: err,
	})
	return b
}

// WithDelay makes the last queued response for name take d to complete.
func (b *MockRunnerBuilder) WithDelay(name string, d time.Duration) *MockRunnerBuilder {
	if r := b.last(name); r != nil {
		r.delay = d
	}
	return b
}

// WithGate makes the last queued response for name block until gate is
// closed or the call's context is cancelled.
func (b *MockRunnerBuilder) WithGate(name string, gate <-chan struct{}) *MockRunnerBuilder {
	if r := b.last(name); r != nil {
		r.gate = gate
	}
	return b
}

func (b *MockRunnerBuilder) last(name string) *mockResponse {
	queue := b.responses[name]
	if len(queue) == 0 {
		b.responses[name] = append(queue, mockResponse{})
		queue = b.responses[name]
	}
	return &queue[len(queue)-1]
}

// Build returns the configured MockRunner.
func (b *MockRunnerBuilder) Build() *MockRunner {
	return &MockRunner{builder: b}
}

// MockRunner implements runner.Runner for tests.
type MockRunner struct {
	builder *MockRunnerBuilder
}

var _ runner.Runner = (*MockRunner)(nil)

// Run records the call and plays back the next queued response for name.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (runner.Result, error) {
	resp := m.next(name)

	m.builder.mu.Lock()
	m.builder.started[name]++
	m.builder.inFlight++
	if m.builder.inFlight > m.builder.maxFlight {
		m.builder.maxFlight = m.builder.inFlight
	}
	m.builder.mu.Unlock()

	err := wait(ctx, resp)

	m.builder.mu.Lock()
	m.builder.inFlight--
	record := CallRecord{
		Name:      name,
		Args:      append([]string(nil), args...),
		Timestamp: time.Now(),
		Result:    resp.result,
		Error:     err,
	}
	m.builder.calls = append(m.builder.calls, record)
	m.builder.mu.Unlock()

	if err != nil {
		return runner.Result{ExitCode: -1}, err
	}
	return resp.result, nil
}

func (m *MockRunner) next(name string) mockResponse {
	m.builder.mu.Lock()
	defer m.builder.mu.Unlock()

	queue := m.builder.responses[name]
	if len(queue) == 0 {
		return mockResponse{}
	}
	resp := queue[0]
	if len(queue) > 1 {
		m.builder.responses[name] = queue[1:]
	}
	return resp
}

func wait(ctx context.Context, resp mockResponse) error {
	if resp.delay > 0 {
		timer := time.NewTimer(resp.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if resp.gate != nil {
		select {
		case <-resp.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if resp.responseErr != nil {
		return resp.responseErr
	}
	return nil
}

// GetCalls returns all completed calls.
func (m *MockRunner) GetCalls() []CallRecord {
	m.builder.mu.Lock()
	defer m.builder.mu.Unlock()

	result := make([]CallRecord, len(m.builder.calls))
	copy(result, m.builder.calls)
	return result
}

// GetCallsByName returns completed calls filtered by command name.
func (m *MockRunner) GetCallsByName(name string) []CallRecord {
	m.builder.mu.Lock()
	defer m.builder.mu.Unlock()

	var result []CallRecord
	for _, call := range m.builder.calls {
		if call.Name == name {
			result = append(result, call)
		}
	}
	return result
}

// CallCount returns the number of completed calls to name.
func (m *MockRunner) CallCount(name string) int {
	return len(m.GetCallsByName(name))
}

// StartedCount returns the number of calls to name, including ones still running.
func (m *MockRunner) StartedCount(name string) int {
	m.builder.mu.Lock()
	defer m.builder.mu.Unlock()
	return m.builder.started[name]
}

// InFlight returns the number of calls currently blocked in Run.
func (m *MockRunner) InFlight() int {
	m.builder.mu.Lock()
	defer m.builder.mu.Unlock()
	return m.builder.inFlight
}

// MaxInFlight returns the highest number of concurrent calls observed.
func (m *MockRunner) MaxInFlight() int {
	m.builder.mu.Lock()
	defer m.builder.mu.Unlock()
	return m.builder.maxFlight
}

// AssertCalled verifies that name was called with the expected arguments.
func (m *MockRunner) AssertCalled(t *testing.T, name string, args ...string) {
	t.Helper()

	want := strings.Join(args, " ")
	calls := m.GetCallsByName(name)
	for _, call := range calls {
		if strings.Join(call.Args, " ") == want {
			return
		}
	}

	t.Errorf("expected %s to be called with %q, but was not found in %d calls", name, want, len(calls))
}

// AssertNotCalled verifies that name was NOT called.
func (m *MockRunner) AssertNotCalled(t *testing.T, name string) {
	t.Helper()

	if calls := m.GetCallsByName(name); len(calls) > 0 {
		t.Errorf("expected %s to not be called, but was called %d times", name, len(calls))
	}
}

// AssertCallCount verifies the number of calls to name.
func (m *MockRunner) AssertCallCount(t *testing.T, name string, expected int) {
	t.Helper()

	if got := m.CallCount(name); got != expected {
		t.Errorf("expected %s to be called %d times, got %d", name, expected, got)
	}
}

// Reset clears all recorded calls.
func (m *MockRunner) Reset() {
	m.builder.mu.Lock()
	defer m.builder.mu.Unlock()

	m.builder.calls = make([]CallRecord, 0)
	m.builder.started = make(map[string]int)
}
