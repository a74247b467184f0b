package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/syncmail/syncmail/internal/runner"
)

// Sender delivers a notification to the desktop.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// NewSender returns a Sender that runs command through r with notify-send
// compatible arguments.
func NewSender(command string, r runner.Runner) Sender {
	return &commandSender{command: command, runner: r}
}

// commandSender runs a notify-send compatible executable.
type commandSender struct {
	command string
	runner  runner.Runner
}

// Send runs the notifier and fails if it cannot start, is cancelled, or
// exits non-zero.
func (s *commandSender) Send(ctx context.Context, n Notification) error {
	res, err := s.runner.Run(ctx, s.command, buildArgs(n)...)
	if err != nil {
		return fmt.Errorf("running %s: %w", s.command, err)
	}
	if res.ExitCode != 0 {
		detail := strings.TrimSpace(string(res.Stderr) + string(res.Stdout))
		if detail != "" {
			return fmt.Errorf("%s exited with status %d: %s", s.command, res.ExitCode, detail)
		}
		return fmt.Errorf("%s exited with status %d", s.command, res.ExitCode)
	}
	return nil
}

// buildArgs maps a notification onto notify-send flags:
// -t <milliseconds> -a <app> [-i <icon>] <summary> <body>
func buildArgs(n Notification) []string {
	args := []string{
		"-t", strconv.FormatInt(n.Timeout.Milliseconds(), 10),
		"-a", AppName,
	}
	if n.Icon != "" {
		args = append(args, "-i", n.Icon)
	}
	return append(args, n.Title, n.Message)
}

// ToolAvailable checks if a command-line tool is available in PATH
func ToolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
