package runner

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestExec_CapturesOutput(t *testing.T) {
	t.Parallel()
	requireTool(t, "sh")

	res, err := NewExec().Run(context.Background(), "sh", "-c", "echo 'pulled 2 new message(s)'; echo oops >&2")
	require.NoError(t, err)

	assert.Equal(t, "pulled 2 new message(s)\n", string(res.Stdout))
	assert.Equal(t, "oops\n", string(res.Stderr))
	assert.Equal(t, 0, res.ExitCode)
}

func TestExec_NonZeroExitIsNotAnError(t *testing.T) {
	t.Parallel()
	requireTool(t, "sh")

	res, err := NewExec().Run(context.Background(), "sh", "-c", "echo failed >&2; exit 3")
	require.NoError(t, err)

	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "failed\n", string(res.Stderr))
}

func TestExec_StartFailure(t *testing.T) {
	t.Parallel()

	res, err := NewExec().Run(context.Background(), "syncmail-test-no-such-command")
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestExec_Cancellation(t *testing.T) {
	t.Parallel()
	requireTool(t, "sleep")

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := (&Exec{WaitDelay: time.Second}).Run(ctx, "sleep", "30")
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 10*time.Second)
}
