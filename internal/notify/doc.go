// Package notify raises desktop notifications when syncmail sees new mail.
//
// Notifications are sent by running an external notifier executable
// (notify-send by default) with a display timeout, an icon, a summary and a
// body that names the account and the number of new messages. Failures are
// returned to the caller, which logs them; a failed notification never
// fails a sync.
//
// # Usage
//
//	handler := notify.NewHandler(notify.Config{
//		Enabled: true,
//		Command: "notify-send",
//		Icon:    "mail-unread",
//		Timeout: 5 * time.Second,
//	}, runner.NewExec())
//	err := handler.NotifyNewMail(ctx, "work", 3)
package notify
