package supervisor

import (
	"context"
	"strings"
)

// rescan starts the index command on its own goroutine. It is not tracked
// by the registry and its outcome only reaches the log.
func (s *Supervisor) rescan(ctx context.Context) {
	if s.indexCmd == "" || s.runner == nil {
		return
	}

	go func() {
		log := s.log.With("command", s.indexCmd)
		res, err := s.runner.Run(ctx, s.indexCmd, s.indexArgs...)
		if err != nil {
			if ctx.Err() != nil {
				log.Infow("Index rescan cancelled")
				return
			}
			log.Errorw("Failed to run index rescan", "error", err)
			return
		}
		if len(res.Stderr) > 0 {
			log.Errorf("Index rescan reports error: %s", strings.TrimRight(string(res.Stderr), "\n"))
			return
		}
		log.Debugw("Index rescan finished", "exit_code", res.ExitCode)
	}()
}
