package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syncmail/syncmail/internal/health"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run health checks for syncmail dependencies",
		Long: `Run health checks to verify that all required dependencies are installed and available.

This command checks for:
  - the sync tool (NEOMUTT_SYNC_CMD, default mbsync)
  - the index tool (NEOMUTT_INDEX_CMD, default notmuch)
  - the notifier (NEOMUTT_NOTIFY_CMD, default notify-send) when notifications are enabled
  - the accounts directory (NEOMUTT_ACCOUNTS_PATH)

Each check will display a ✓ if passed or ✗ with an error message if failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			report := health.RunHealthChecks(health.Targets{
				SyncCmd:       cfg.SyncCmd,
				IndexCmd:      cfg.IndexCmd,
				NotifyCmd:     cfg.NotifyCmd,
				AccountsDir:   cfg.AccountsPath,
				Notifications: cfg.Notifications,
			})
			fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

			if !report.Passed {
				return NewExitError(ExitMissingDependency)
			}
			return nil
		},
	}
}
