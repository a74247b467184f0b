package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/syncmail/syncmail/internal/runner"
)

// dispatchTimeout bounds a single notifier invocation.
const dispatchTimeout = 5 * time.Second

// Handler sends new-mail notifications according to its Config.
type Handler struct {
	config Config
	sender Sender
}

// NewHandler creates a handler that runs config.Command through r.
func NewHandler(config Config, r runner.Runner) *Handler {
	return &Handler{
		config: config,
		sender: NewSender(config.Command, r),
	}
}

// NewHandlerWithSender creates a handler with a custom sender (for testing).
func NewHandlerWithSender(config Config, sender Sender) *Handler {
	return &Handler{
		config: config,
		sender: sender,
	}
}

// Config returns the handler's notification configuration
func (h *Handler) Config() Config {
	return h.config
}

// NotifyNewMail announces count new messages for account. It is a no-op
// when notifications are disabled or count is not positive.
func (h *Handler) NotifyNewMail(ctx context.Context, account string, count int) error {
	if !h.config.Enabled || count <= 0 {
		return nil
	}
	return h.dispatch(ctx, NewMailNotification(account, count, h.config))
}

// dispatch sends n, bounded by dispatchTimeout.
func (h *Handler) dispatch(ctx context.Context, n Notification) error {
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	if err := h.sender.Send(ctx, n); err != nil {
		return fmt.Errorf("sending notification %q: %w", n.Title, err)
	}
	return nil
}
