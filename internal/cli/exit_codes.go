package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the syncmail CLI
const (
	// ExitSuccess indicates successful completion, including operator interrupt
	ExitSuccess = 0
	// ExitConfigError indicates the configuration could not be loaded
	ExitConfigError = 1
	// ExitRuntimeError indicates a failure after startup
	ExitRuntimeError = 2
	// ExitInvalidArguments indicates an unknown command, flag or argument
	ExitInvalidArguments = 3
	// ExitMissingDependency indicates doctor found a missing executable
	ExitMissingDependency = 4
)

// exitError is a custom error type that carries an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// wrapExit attaches an exit code to err.
func wrapExit(code int, err error) error {
	return &exitError{code: code, err: err}
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitRuntimeError
}
