// Package supervisor runs the syncmail cycle: dispatch one sync task per
// account, wait half the check interval, ask the mail indexer to rescan,
// wait the other half, and repeat until cancelled.
package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/syncmail/syncmail/internal/account"
	"github.com/syncmail/syncmail/internal/registry"
	"github.com/syncmail/syncmail/internal/runner"
)

// DefaultIndexArgs are passed to the index command on every rescan.
var DefaultIndexArgs = []string{"new", "--quiet"}

// StatusReporter receives the interactive status updates. All methods must
// be safe to call from the supervisor goroutine.
type StatusReporter interface {
	Started(at time.Time)
	CycleCompleted(at time.Time)
	ShuttingDown()
}

// Options configures a Supervisor.
type Options struct {
	// Interval is the full cycle length; each cycle sleeps Interval/2
	// before and after the rescan.
	Interval time.Duration
	// AccountsDir holds the account descriptor files.
	AccountsDir string
	// Sync runs one account's sync. Usually mailsync.Invoker.Invoke.
	Sync registry.Func
	// Runner executes the index command.
	Runner runner.Runner
	// IndexCmd is the rescan executable. Empty disables rescans.
	IndexCmd string
	// IndexArgs defaults to DefaultIndexArgs.
	IndexArgs []string
	// Clock defaults to the real clock.
	Clock clock.Clock
	// Status defaults to a no-op reporter.
	Status StatusReporter
	// Log defaults to a no-op logger.
	Log *zap.SugaredLogger
}

// Supervisor owns a task registry and drives the sync/rescan cycle.
type Supervisor struct {
	interval    time.Duration
	accountsDir string
	sync        registry.Func
	runner      runner.Runner
	indexCmd    string
	indexArgs   []string
	clock       clock.Clock
	status      StatusReporter
	log         *zap.SugaredLogger

	registry *registry.Registry
	state    atomic.Int32
}

// New creates a Supervisor in the Starting state.
func New(opts Options) *Supervisor {
	s := &Supervisor{
		interval:    opts.Interval,
		accountsDir: opts.AccountsDir,
		sync:        opts.Sync,
		runner:      opts.Runner,
		indexCmd:    opts.IndexCmd,
		indexArgs:   opts.IndexArgs,
		clock:       opts.Clock,
		status:      opts.Status,
		log:         opts.Log,
	}
	if s.indexArgs == nil {
		s.indexArgs = DefaultIndexArgs
	}
	if s.clock == nil {
		s.clock = clock.RealClock{}
	}
	if s.status == nil {
		s.status = nopStatus{}
	}
	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}
	s.registry = registry.New(s.log)
	return s
}

// Registry returns the supervisor's task registry.
func (s *Supervisor) Registry() *registry.Registry {
	return s.registry
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

func (s *Supervisor) setState(st State) {
	prev := State(s.state.Swap(int32(st)))
	if prev != st {
		s.log.Debugw("Supervisor state changed", "from", prev.String(), "to", st.String())
	}
}

// Run executes one execute phase immediately, then cycles until ctx is
// cancelled. On cancellation it cancels and drains every in-flight task.
// Cancellation is a normal shutdown and Run returns nil; the only error is
// an invalid configuration.
func (s *Supervisor) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("check interval must be positive")
	}
	if s.sync == nil {
		return errors.New("sync function is required")
	}

	s.setState(StateStarting)
	s.status.Started(s.clock.Now())
	s.log.Infow("Starting mail fetcher", "interval", s.interval.String(), "accounts_dir", s.accountsDir)

	s.setState(StateRunning)
	s.Execute(ctx)

	for {
		if err := s.cycle(ctx); err != nil {
			break
		}
	}

	s.shutdown()
	return nil
}

// cycle runs one sleep/rescan/sleep/execute round. It returns ctx.Err()
// when cancelled at any suspension point.
func (s *Supervisor) cycle(ctx context.Context) error {
	first := s.interval / 2
	second := s.interval - first

	if err := s.sleep(ctx, first); err != nil {
		return err
	}
	s.rescan(ctx)
	if err := s.sleep(ctx, second); err != nil {
		return err
	}
	s.Execute(ctx)
	s.status.CycleCompleted(s.clock.Now())
	return ctx.Err()
}

func (s *Supervisor) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := s.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}

// Execute discovers accounts and dispatches one sync task per account. It
// returns without waiting for the tasks and reports how many it dispatched.
//
// Tasks run on a context detached from ctx: they stop only through the
// registry (CancelAll during shutdown). A previous sync for the same account
// that is still running is not waited for.
func (s *Supervisor) Execute(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}

	accounts, err := account.Discover(s.accountsDir)
	if err != nil {
		s.log.Errorw("Failed to discover accounts", "accounts_dir", s.accountsDir, "error", err)
		return 0
	}
	if len(accounts) == 0 {
		s.log.Infow("No accounts found", "accounts_dir", s.accountsDir)
		return 0
	}

	taskCtx := context.WithoutCancel(ctx)
	for _, acct := range accounts {
		if n := s.registry.InFlight(acct); n > 0 {
			s.log.Warnw("Previous sync still running, dispatching anyway", "account", acct, "in_flight", n)
		}
		task := s.registry.Dispatch(taskCtx, acct, s.sync)
		s.log.Debugw("Dispatched sync task", "account", acct, "task_id", task.ID())
	}

	s.log.Infow("Dispatched sync tasks", "accounts", len(accounts), "in_flight", s.registry.Len())
	return len(accounts)
}

// RunOnce performs a single execute phase and returns the number of
// dispatched tasks without waiting for them. Use Registry().Drain to wait.
func (s *Supervisor) RunOnce(ctx context.Context) int {
	if s.sync == nil {
		s.log.Errorw("Sync function is not configured")
		return 0
	}
	s.setState(StateRunning)
	return s.Execute(ctx)
}

// Shutdown cancels every in-flight task and waits for all of them to finish.
func (s *Supervisor) Shutdown() {
	s.shutdown()
}

func (s *Supervisor) shutdown() {
	s.setState(StateShuttingDown)
	s.status.ShuttingDown()
	s.log.Info("Shutting down...")

	n := s.registry.CancelAll()
	_ = s.registry.Drain(context.Background())

	s.log.Infow("Shutdown completed.", "cancelled_tasks", n)
	s.setState(StateStopped)
}

type nopStatus struct{}

func (nopStatus) Started(time.Time)        {}
func (nopStatus) CycleCompleted(time.Time) {}
func (nopStatus) ShuttingDown()            {}
