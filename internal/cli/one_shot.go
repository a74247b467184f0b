package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/syncmail/syncmail/internal/progress"
	"github.com/syncmail/syncmail/internal/runner"
)

var errInterrupted = errors.New("interrupted")

func newOneShotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "one-shot",
		Aliases: []string{"once"},
		Short:   "Sync every account once",
		Long: `Sync every account once.

One sync is started per account and the command waits for all of them to
finish. Use --verbose to get output to the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runOneShot(ctx, cmd)
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	return cmd
}

func runOneShot(ctx context.Context, cmd *cobra.Command) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	verbose, _ := cmd.Flags().GetBool("verbose")
	display := progress.NewDisplay(cmd.OutOrStdout(), progress.DetectTerminalCapabilities())
	if verbose {
		display.Start("syncmail")
	}

	sup := a.newSupervisor(runner.NewExec(), nil)
	n := sup.RunOnce(ctx)

	if err := sup.Registry().Drain(ctx); err != nil {
		a.log.Info("Interrupted, cancelling running syncs")
		sup.Shutdown()
		if verbose {
			display.Fail("syncmail", errInterrupted)
		}
		return nil
	}

	a.log.Infow("One-shot run finished", "accounts", n)
	if verbose {
		display.Complete("syncmail")
	}
	return nil
}
