package cli

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syncmail/syncmail/internal/config"
	"github.com/syncmail/syncmail/internal/logging"
	"github.com/syncmail/syncmail/internal/mailsync"
	"github.com/syncmail/syncmail/internal/notify"
	"github.com/syncmail/syncmail/internal/runner"
	"github.com/syncmail/syncmail/internal/supervisor"
)

// app is the wired runtime shared by the long-running commands.
type app struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	closeLog func() error
}

// loadConfig reads the file named by --config. Failures are reported in red
// on stderr and carry ExitConfigError.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
		return nil, wrapExit(ExitConfigError, err)
	}
	return cfg, nil
}

// bootstrap loads configuration and opens the log file. Nothing is started
// if either step fails.
func bootstrap(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	log, closeLog, err := logging.New(logging.Options{
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		Debug:      debug,
	})
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
		return nil, wrapExit(ExitConfigError, err)
	}

	return &app{cfg: cfg, log: log, closeLog: closeLog}, nil
}

func (a *app) close() {
	_ = a.closeLog()
}

// newSupervisor wires the runner, notifier and sync invoker from cfg.
func (a *app) newSupervisor(r runner.Runner, status supervisor.StatusReporter) *supervisor.Supervisor {
	if a.cfg.Notifications && !notify.ToolAvailable(a.cfg.NotifyCmd) {
		a.log.Warnw("Notifier not found in PATH, new mail notifications will fail", "command", a.cfg.NotifyCmd)
	}

	handler := notify.NewHandler(notify.Config{
		Enabled: a.cfg.Notifications,
		Command: a.cfg.NotifyCmd,
		Icon:    a.cfg.NotifyIcon,
		Timeout: a.cfg.NotifyTimeoutDuration(),
	}, r)
	invoker := mailsync.NewInvoker(r, a.cfg.SyncCmd, handler, a.log)

	return supervisor.New(supervisor.Options{
		Interval:    a.cfg.Interval(),
		AccountsDir: a.cfg.AccountsPath,
		Sync:        invoker.Invoke,
		Runner:      r,
		IndexCmd:    a.cfg.IndexCmd,
		Status:      status,
		Log:         a.log,
	})
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "Error: %v\n", err)
}
