// Package cli provides the Cobra-based commands for syncmail: the
// infinite mail-fetch loop, a single one-shot run, and the doctor and
// version utilities.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the syncmail command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "syncmail",
		Short: "Periodic multi-account mail synchronization",
		Long: `syncmail runs the mail sync tool once per configured account on a fixed
interval, asks the mail indexer to rescan in between, and shows a desktop
notification whenever an account pulled new messages.

Configuration is read from .syncmailenv in the working directory and from
NEOMUTT_* environment variables.`,
		Example: `  # Run forever
  syncmail infinite-loop

  # Sync every account once and wait for completion
  syncmail one-shot --verbose

  # Check that mbsync, notmuch and notify-send are installed
  syncmail doctor`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default .syncmailenv)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	rootCmd.AddCommand(
		newInfiniteLoopCmd(),
		newOneShotCmd(),
		newDoctorCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return execute(NewRootCmd())
}

// execute runs cmd and reports errors cobra would otherwise print. Errors
// from a command's RunE already carry an exit code and have been reported;
// anything else is a usage error (unknown command, bad flag or argument).
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err == nil {
		return nil
	}

	var e *exitError
	if errors.As(err, &e) {
		return err
	}

	printError(cmd.ErrOrStderr(), err)
	fmt.Fprintf(cmd.ErrOrStderr(), "Run '%s --help' for usage.\n", cmd.CommandPath())
	return wrapExit(ExitInvalidArguments, err)
}
