// Package runner executes external commands for syncmail and captures their
// output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"
)

// DefaultWaitDelay is how long a cancelled command gets to exit after
// SIGTERM before it is killed.
const DefaultWaitDelay = 5 * time.Second

// Result is the captured outcome of one command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner runs a command to completion.
//
// A non-zero exit status is reported through Result.ExitCode, not as an
// error. Run returns an error only when the command could not be started
// or ctx was cancelled before it exited.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// Exec runs commands with os/exec.
type Exec struct {
	// WaitDelay bounds the wait after cancellation. Zero uses DefaultWaitDelay.
	WaitDelay time.Duration
}

// NewExec returns an Exec runner with the default wait delay.
func NewExec() *Exec {
	return &Exec{WaitDelay: DefaultWaitDelay}
}

// Run starts name with args and waits for it to exit. Cancelling ctx sends
// SIGTERM to the child and kills it once WaitDelay has elapsed.
func (e *Exec) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = e.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, nil
	}
	return res, err
}
