package config

// GetDefaults returns the default configuration values. The three required
// keys (check_interval, log_file, accounts_path) have no default.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"sync_cmd":        "mbsync",
		"index_cmd":       "notmuch",
		"notify_cmd":      "notify-send",
		"notify_icon":     "mail-unread",
		"notify_timeout":  5000,
		"notifications":   true,
		"log_max_size":    1,
		"log_max_backups": 5,
	}
}
