package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/syncmail/syncmail/internal/progress"
	"github.com/syncmail/syncmail/internal/runner"
)

func newInfiniteLoopCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "infinite-loop",
		Aliases: []string{"run"},
		Short:   "Run the mail fetcher indefinitely",
		Long: `Run the mail fetcher indefinitely.

Every account is synced immediately, then once per NEOMUTT_CHECK_INTERVAL
seconds. Halfway through each interval the mail index is rescanned.
Interrupt (Ctrl+C) or SIGTERM cancels running syncs and exits cleanly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runInfiniteLoop(ctx, cmd)
		},
	}
}

func runInfiniteLoop(ctx context.Context, cmd *cobra.Command) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	status := progress.NewStatusPrinter(cmd.OutOrStdout(), progress.DetectTerminalCapabilities())
	sup := a.newSupervisor(runner.NewExec(), status)

	if err := sup.Run(ctx); err != nil {
		a.log.Errorw("Mail fetcher stopped", "error", err)
		printError(cmd.ErrOrStderr(), err)
		return wrapExit(ExitRuntimeError, err)
	}
	return nil
}
