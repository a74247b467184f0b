package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncmail/syncmail/internal/testutil"
)

// fixture is a temp workspace with a config file, an accounts directory,
// a log file path and a fake sync tool that records each account it sees.
type fixture struct {
	configPath  string
	accountsDir string
	logFile     string
	markerDir   string
}

func newFixture(t *testing.T, extra string, accounts ...string) fixture {
	t.Helper()
	return newFixtureWithSync(t, "touch '%[1]s'/\"$1\"\necho \"pulled 2 new message(s)\"\n", extra, accounts...)
}

// newFixtureWithSync is newFixture with a custom fake sync tool body.
// %[1]s in body expands to the marker directory.
func newFixtureWithSync(t *testing.T, body, extra string, accounts ...string) fixture {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	root := t.TempDir()
	f := fixture{
		configPath:  filepath.Join(root, ".syncmailenv"),
		accountsDir: testutil.CreateAccountsDir(t, accounts...),
		logFile:     filepath.Join(root, "logs", "syncmail.log"),
		markerDir:   filepath.Join(root, "markers"),
	}
	require.NoError(t, os.MkdirAll(f.markerDir, 0755))

	syncTool := filepath.Join(root, "fake-mbsync")
	script := "#!/bin/sh\n" + fmt.Sprintf(body, f.markerDir)
	require.NoError(t, os.WriteFile(syncTool, []byte(script), 0755))

	content := strings.Join([]string{
		"NEOMUTT_CHECK_INTERVAL=150",
		"NEOMUTT_LOG_FILE=" + f.logFile,
		"NEOMUTT_ACCOUNTS_PATH=" + f.accountsDir,
		"NEOMUTT_SYNC_CMD=" + syncTool,
		"NEOMUTT_NOTIFICATIONS=false",
	}, "\n") + "\n" + extra
	require.NoError(t, os.WriteFile(f.configPath, []byte(content), 0644))
	return f
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := execute(cmd)
	return stdout.String(), stderr.String(), err
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":          {err: nil, want: ExitSuccess},
		"exit error":   {err: NewExitError(ExitMissingDependency), want: ExitMissingDependency},
		"wrapped exit": {err: fmt.Errorf("ctx: %w", wrapExit(ExitConfigError, assert.AnError)), want: ExitConfigError},
		"plain error":  {err: assert.AnError, want: ExitRuntimeError},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "exit code 4", NewExitError(4).Error())
	assert.Equal(t, assert.AnError.Error(), wrapExit(1, assert.AnError).Error())
	assert.ErrorIs(t, wrapExit(1, assert.AnError), assert.AnError)
}

func TestRootCmd_Commands(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()

	tests := map[string]string{
		"infinite-loop": "infinite-loop",
		"run":           "infinite-loop",
		"one-shot":      "one-shot",
		"once":          "one-shot",
		"doctor":        "doctor",
		"version":       "version",
	}

	for arg, want := range tests {
		t.Run(arg, func(t *testing.T) {
			t.Parallel()

			cmd, _, err := root.Find([]string{arg})
			require.NoError(t, err)
			assert.Equal(t, want, cmd.Name())
		})
	}
}

func TestConfigFailure_ExitsWithConfigError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		wantErr string
	}{
		"missing file": {
			wantErr: "configuration file not found",
		},
		"missing required key": {
			content: "NEOMUTT_CHECK_INTERVAL=150\nNEOMUTT_LOG_FILE=/tmp/x.log\n",
			wantErr: "NEOMUTT_ACCOUNTS_PATH",
		},
	}

	for name, tt := range tests {
		for _, command := range []string{"infinite-loop", "one-shot", "doctor"} {
			t.Run(name+"/"+command, func(t *testing.T) {
				t.Parallel()

				path := filepath.Join(t.TempDir(), ".syncmailenv")
				if tt.content != "" {
					require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
				}

				_, stderr, err := run(t, command, "--config", path)
				require.Error(t, err)
				assert.Equal(t, ExitConfigError, ExitCode(err))
				assert.Contains(t, stderr, "Error:")
				assert.Contains(t, stderr, tt.wantErr)
			})
		}
	}
}

func TestOneShot_SyncsEveryAccount(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "", "work", "personal")

	stdout, _, err := run(t, "one-shot", "-c", f.configPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	for _, acct := range []string{"work", "personal"} {
		assert.FileExists(t, filepath.Join(f.markerDir, acct))
	}

	logs, err := os.ReadFile(f.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logs), "work reports: pulled 2 new message(s)")
	assert.Contains(t, string(logs), "personal reports: pulled 2 new message(s)")
}

func TestOneShot_Verbose(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "", "work")

	stdout, _, err := run(t, "once", "--verbose", "-c", f.configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Running syncmail completed")
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		args    []string
		wantErr string
	}{
		"unknown command":  {args: []string{"infinit-loop"}, wantErr: `unknown command "infinit-loop"`},
		"unknown flag":     {args: []string{"one-shot", "--verbos"}, wantErr: "unknown flag: --verbos"},
		"unexpected arg":   {args: []string{"version", "extra"}, wantErr: "unknown command \"extra\""},
		"missing flag arg": {args: []string{"doctor", "--config"}, wantErr: "flag needs an argument"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitInvalidArguments, ExitCode(err))
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Error: ")
			assert.Contains(t, stderr, tt.wantErr)
			assert.Contains(t, stderr, "Run 'syncmail --help' for usage.")
		})
	}
}

func TestOneShot_InterruptCancelsSyncs(t *testing.T) {
	t.Parallel()

	// exec puts sleep in the shell's place so SIGTERM reaches it directly.
	f := newFixtureWithSync(t, "touch '%[1]s'/\"$1\"\nexec sleep 30\n", "", "work", "personal")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"one-shot", "--verbose", "-c", f.configPath})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		// Interrupt once both syncs are running.
		for {
			_, errA := os.Stat(filepath.Join(f.markerDir, "work"))
			_, errB := os.Stat(filepath.Join(f.markerDir, "personal"))
			if errA == nil && errB == nil {
				cancel()
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
	}()

	start := time.Now()
	err := cmd.ExecuteContext(ctx)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 20*time.Second)
	assert.Contains(t, stdout.String(), "Running syncmail failed: interrupted")
	assert.NotContains(t, stdout.String(), "completed")

	logs, err := os.ReadFile(f.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logs), "Sync cancelled")
	assert.Contains(t, string(logs), "Shutdown completed.")
}

func TestOneShot_NoAccounts(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")

	_, _, err := run(t, "one-shot", "-c", f.configPath)
	require.NoError(t, err)

	logs, err := os.ReadFile(f.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logs), "No accounts found")
}

func TestDoctor(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		extra    string
		wantCode int
		wantOut  []string
	}{
		"index tool missing": {
			extra:    "NEOMUTT_INDEX_CMD=syncmail-test-no-such-indexer\n",
			wantCode: ExitMissingDependency,
			wantOut:  []string{"✓ Sync tool:", "✗ Error: syncmail-test-no-such-indexer not found in PATH", "✓ Accounts: 1 found"},
		},
		"all present": {
			extra:    "NEOMUTT_INDEX_CMD=sh\n",
			wantCode: ExitSuccess,
			wantOut:  []string{"✓ Sync tool:", "✓ Index tool:", "✓ Accounts:"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, tt.extra, "work")

			stdout, _, err := run(t, "doctor", "-c", f.configPath)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			for _, want := range tt.wantOut {
				assert.Contains(t, stdout, want)
			}
			assert.NotContains(t, stdout, "Notifier")
		})
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "syncmail version")
	assert.Contains(t, stdout, "Go version:")
}
