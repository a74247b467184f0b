package config

import (
	"fmt"
	"strings"
)

// ValidationError reports configuration keys that are missing or invalid.
type ValidationError struct {
	FilePath string
	Missing  []string
	Invalid  []string
	Message  string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing environment variables %s", strings.Join(e.Missing, ", ")))
	}
	parts = append(parts, e.Invalid...)
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	msg := strings.Join(parts, "; ")
	if len(e.Missing) > 0 {
		msg += ". Are you executing the program from the directory that contains your configuration options file?"
	}
	return fmt.Sprintf("%s: %s", e.FilePath, msg)
}
