package registry

import (
	"context"
	"sync"

	"github.com/syncmail/syncmail/internal/runner"
)

// State is the lifecycle state of a Task.
type State int

const (
	// StatePending means the task is dispatched and still running
	StatePending State = iota
	// StateDone means the task function returned without error
	StateDone
	// StateCancelled means the task stopped because its context was cancelled
	StateCancelled
	// StateFailed means the task function returned an error or panicked
	StateFailed
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is a final state.
func (s State) Terminal() bool {
	return s != StatePending
}

// Func is the unit of work run for one account.
type Func func(ctx context.Context, account string) (runner.Result, error)

// Task is the handle for one dispatched unit of work.
type Task struct {
	id      string
	account string
	cancel  context.CancelFunc
	done    chan struct{}

	mu     sync.Mutex
	state  State
	result runner.Result
	err    error
}

// ID returns the unique task identifier.
func (t *Task) ID() string { return t.id }

// Account returns the account the task syncs.
func (t *Task) Account() string { return t.account }

// Done is closed once the task is terminal and has left the registry.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel requests cancellation. It does not wait.
func (t *Task) Cancel() { t.cancel() }

// State returns the current state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Result returns the captured command output. It is only meaningful once
// Done is closed.
func (t *Task) Result() runner.Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// Err returns the error the task ended with, if any.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Task) finish(state State, res runner.Result, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
	t.result = res
	t.err = err
}
