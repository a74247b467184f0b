// Package mailsync runs the external mail-sync tool for a single account
// and turns its output into log entries and new-mail notifications.
package mailsync

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/syncmail/syncmail/internal/runner"
)

// Notifier announces new mail for an account.
type Notifier interface {
	NotifyNewMail(ctx context.Context, account string, count int) error
}

// Invoker runs the sync command for one account at a time. It is safe for
// concurrent use; each Invoke call is independent.
type Invoker struct {
	runner   runner.Runner
	command  string
	notifier Notifier
	log      *zap.SugaredLogger
}

// NewInvoker returns an Invoker that runs command through r. notifier may
// be nil to disable notifications.
func NewInvoker(r runner.Runner, command string, notifier Notifier, log *zap.SugaredLogger) *Invoker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Invoker{
		runner:   r,
		command:  command,
		notifier: notifier,
		log:      log,
	}
}

// Invoke runs "<command> <account>" and waits for it to exit.
//
// The exit status of the sync tool does not affect the outcome: stderr is
// logged as an error and Invoke still returns nil. An error is returned only
// if the command could not be started or ctx was cancelled.
func (inv *Invoker) Invoke(ctx context.Context, account string) (runner.Result, error) {
	log := inv.log.With("account", account)
	log.Infow("Running sync", "command", inv.command)

	res, err := inv.runner.Run(ctx, inv.command, account)
	if err != nil {
		if ctx.Err() != nil {
			log.Infow("Sync cancelled")
			return res, ctx.Err()
		}
		log.Errorw("Failed to run sync command", "command", inv.command, "error", err)
		return res, fmt.Errorf("running %s for %s: %w", inv.command, account, err)
	}

	if len(res.Stdout) > 0 {
		stdout := string(res.Stdout)
		if n, ok := ParseNewMessages(stdout); ok && n > 0 {
			inv.notify(ctx, log, account, n)
		}
		log.Infof("%s reports: %s", account, strings.TrimRight(stdout, "\n"))
	}
	if len(res.Stderr) > 0 {
		log.Errorf("%s reports error: %s", account, strings.TrimRight(string(res.Stderr), "\n"))
	}

	log.Infow("Done running sync", "exit_code", res.ExitCode)
	return res, nil
}

func (inv *Invoker) notify(ctx context.Context, log *zap.SugaredLogger, account string, count int) {
	if inv.notifier == nil {
		return
	}
	if err := inv.notifier.NotifyNewMail(ctx, account, count); err != nil {
		log.Errorw("Failed to send notification", "new_messages", count, "error", err)
		return
	}
	log.Infow("Sent new mail notification", "new_messages", count)
}
