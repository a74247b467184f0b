// Package registry tracks in-flight sync tasks so they can be cancelled and
// drained on shutdown.
//
// A Registry contains exactly the tasks that have been dispatched and have
// not yet reached a terminal state. Each task removes itself the moment its
// function returns, before its Done channel is closed.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syncmail/syncmail/internal/runner"
)

// Registry is a concurrent set of in-flight tasks.
type Registry struct {
	mu    sync.Mutex
	tasks map[string]*Task
	log   *zap.SugaredLogger
}

// New returns an empty registry.
func New(log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Registry{
		tasks: make(map[string]*Task),
		log:   log,
	}
}

// Dispatch registers a task for account and starts fn on a new goroutine.
// It never blocks on fn. The task's context is derived from ctx and is also
// cancelled by Task.Cancel and CancelAll.
func (r *Registry) Dispatch(ctx context.Context, account string, fn Func) *Task {
	taskCtx, cancel := context.WithCancel(ctx)
	t := &Task{
		id:      uuid.NewString(),
		account: account,
		cancel:  cancel,
		done:    make(chan struct{}),
		state:   StatePending,
	}

	r.mu.Lock()
	r.tasks[t.id] = t
	r.mu.Unlock()

	go r.run(taskCtx, t, fn)
	return t
}

func (r *Registry) run(ctx context.Context, t *Task, fn Func) {
	defer close(t.done)
	defer t.cancel()

	res, err := call(ctx, t.account, fn)

	state := StateDone
	switch {
	case err == nil:
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		state = StateCancelled
	default:
		state = StateFailed
	}
	t.finish(state, res, err)
	r.remove(t)
}

// call runs fn and converts a panic into an error.
func call(ctx context.Context, account string, fn Func) (res runner.Result, err error) {
	if err := ctx.Err(); err != nil {
		return runner.Result{}, err
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task for %s panicked: %v", account, p)
		}
	}()
	return fn(ctx, account)
}

func (r *Registry) remove(t *Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, t.id)
}

// Len returns the number of in-flight tasks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// InFlight returns the number of in-flight tasks for account.
func (r *Registry) InFlight(account string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, t := range r.tasks {
		if t.account == account {
			n++
		}
	}
	return n
}

// Snapshot returns the in-flight tasks ordered by account.
func (r *Registry) Snapshot() []*Task {
	r.mu.Lock()
	tasks := make([]*Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, t)
	}
	r.mu.Unlock()

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].account != tasks[j].account {
			return tasks[i].account < tasks[j].account
		}
		return tasks[i].id < tasks[j].id
	})
	return tasks
}

// CancelAll requests cancellation of every in-flight task and returns how
// many were signalled. Tasks that are past their last cancellation point
// finish normally.
func (r *Registry) CancelAll() int {
	tasks := r.Snapshot()
	for _, t := range tasks {
		t.Cancel()
	}
	return len(tasks)
}

// Drain waits until every task registered at the time of the call is
// terminal. Task failures and cancellations are logged, never returned; the
// only error is ctx.Err() when ctx ends first.
func (r *Registry) Drain(ctx context.Context) error {
	tasks := r.Snapshot()
	if len(tasks) == 0 {
		return nil
	}

	var g errgroup.Group
	for _, t := range tasks {
		g.Go(func() error {
			select {
			case <-t.Done():
			case <-ctx.Done():
				return nil
			}
			if err := t.Err(); err != nil {
				r.log.Debugw("Drained task", "task_id", t.ID(), "account", t.Account(), "state", t.State().String(), "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return ctx.Err()
}
