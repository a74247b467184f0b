package notify

import (
	"fmt"
	"time"
)

// AppName is reported to the notification daemon as the sending application.
const AppName = "syncmail"

// Config holds the notification settings.
type Config struct {
	// Enabled is the master switch for all notifications
	Enabled bool
	// Command is the notifier executable (e.g. notify-send)
	Command string
	// Icon is an icon name or path passed to the notifier
	Icon string
	// Timeout is how long the notification stays on screen
	Timeout time.Duration
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Command: "notify-send",
		Icon:    "mail-unread",
		Timeout: 5 * time.Second,
	}
}

// Notification represents a single notification event to dispatch
type Notification struct {
	// Title is the notification summary line
	Title string
	// Message is the notification body text
	Message string
	// Icon is an icon name or file path
	Icon string
	// Timeout is the display duration
	Timeout time.Duration
}

// NewMailNotification builds the notification for count new messages in account.
func NewMailNotification(account string, count int, cfg Config) Notification {
	return Notification{
		Title:   fmt.Sprintf("New mail in %s", account),
		Message: fmt.Sprintf("%s: %d new message(s)", account, count),
		Icon:    cfg.Icon,
		Timeout: cfg.Timeout,
	}
}
