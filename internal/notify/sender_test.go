package notify

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncmail/syncmail/internal/runner"
	"github.com/syncmail/syncmail/internal/testutil"
)

func TestBuildArgs(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		n    Notification
		want []string
	}{
		"with icon": {
			n: NewMailNotification("work", 3, Config{Icon: "mail-unread", Timeout: 5 * time.Second}),
			want: []string{
				"-t", "5000", "-a", "syncmail", "-i", "mail-unread",
				"New mail in work", "work: 3 new message(s)",
			},
		},
		"without icon": {
			n: NewMailNotification("home", 12, Config{Timeout: 1500 * time.Millisecond}),
			want: []string{
				"-t", "1500", "-a", "syncmail",
				"New mail in home", "home: 12 new message(s)",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, buildArgs(tt.n))
		})
	}
}

func TestCommandSender_Send(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	outFile := filepath.Join(dir, "args")
	script := filepath.Join(dir, "fake-notify-send")
	content := "#!/bin/sh\nfor a in \"$@\"; do echo \"$a\"; done > '" + outFile + "'\n"
	require.NoError(t, os.WriteFile(script, []byte(content), 0755))

	n := NewMailNotification("work", 2, Config{Icon: "mail-unread", Timeout: time.Second})
	require.NoError(t, NewSender(script, runner.NewExec()).Send(context.Background(), n))

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, buildArgs(n), got)
}

func TestCommandSender_SendFailure(t *testing.T) {
	t.Parallel()

	n := NewMailNotification("work", 1, DefaultConfig())
	err := NewSender("syncmail-test-missing-notifier", runner.NewExec()).Send(context.Background(), n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syncmail-test-missing-notifier")
}

func TestCommandSender_UsesRunner(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		build   func(b *testutil.MockRunnerBuilder) *testutil.MockRunnerBuilder
		wantErr string
	}{
		"success": {
			build: func(b *testutil.MockRunnerBuilder) *testutil.MockRunnerBuilder {
				return b.WithOutput("notify-send", "", "")
			},
		},
		"non-zero exit with stderr": {
			build: func(b *testutil.MockRunnerBuilder) *testutil.MockRunnerBuilder {
				return b.WithOutput("notify-send", "", "cannot open display\n").WithExitCode("notify-send", 1)
			},
			wantErr: "notify-send exited with status 1: cannot open display",
		},
		"non-zero exit without output": {
			build: func(b *testutil.MockRunnerBuilder) *testutil.MockRunnerBuilder {
				return b.WithOutput("notify-send", "", "").WithExitCode("notify-send", 2)
			},
			wantErr: "notify-send exited with status 2",
		},
		"start failure": {
			build: func(b *testutil.MockRunnerBuilder) *testutil.MockRunnerBuilder {
				return b.WithError("notify-send", errNotifierMissing)
			},
			wantErr: "running notify-send",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			mock := tt.build(testutil.NewMockRunnerBuilder(t)).Build()
			n := NewMailNotification("work", 4, DefaultConfig())

			err := NewSender("notify-send", mock).Send(context.Background(), n)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			mock.AssertCalled(t, "notify-send", buildArgs(n)...)
		})
	}
}

func TestCommandSender_Cancelled(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	defer close(gate)
	mock := testutil.NewMockRunnerBuilder(t).
		WithOutput("notify-send", "", "").
		WithGate("notify-send", gate).
		Build()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSender("notify-send", mock).Send(ctx, NewMailNotification("work", 1, DefaultConfig()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToolAvailable(t *testing.T) {
	t.Parallel()

	assert.False(t, ToolAvailable("syncmail-test-missing-notifier"))
}
