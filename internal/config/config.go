// Package config loads the syncmail configuration from a dotenv-style file
// (".syncmailenv" by default) and NEOMUTT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = ".syncmailenv"

// EnvPrefix is the prefix shared by every configuration key.
const EnvPrefix = "NEOMUTT_"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config holds the process-wide syncmail settings. It is loaded once at
// startup and never mutated afterwards.
type Config struct {
	// CheckInterval is the full cycle length in seconds. The supervisor
	// splits it into two equal sleeps around the index rescan.
	CheckInterval int    `koanf:"check_interval" validate:"required,min=1"`
	LogFile       string `koanf:"log_file" validate:"required"`
	AccountsPath  string `koanf:"accounts_path" validate:"required"`

	SyncCmd  string `koanf:"sync_cmd" validate:"required"`
	IndexCmd string `koanf:"index_cmd" validate:"required"`

	NotifyCmd     string `koanf:"notify_cmd" validate:"required"`
	NotifyIcon    string `koanf:"notify_icon"`
	NotifyTimeout int    `koanf:"notify_timeout" validate:"min=0"` // milliseconds
	Notifications bool   `koanf:"notifications"`

	LogMaxSize    int `koanf:"log_max_size" validate:"min=1"` // megabytes
	LogMaxBackups int `koanf:"log_max_backups" validate:"min=0"`
}

// Interval returns CheckInterval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.CheckInterval) * time.Second
}

// NotifyTimeoutDuration returns NotifyTimeout as a duration.
func (c *Config) NotifyTimeoutDuration() time.Duration {
	return time.Duration(c.NotifyTimeout) * time.Millisecond
}

// Load loads configuration from the file at path and the environment.
// Priority: Environment variables > config file > defaults
//
// A missing file is fatal, as is any required key that is absent or empty
// after all sources are merged.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply default %s: %w", key, err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: could not find %q in the current directory", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to access config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (highest priority). Empty values
	// are skipped so an exported-but-blank variable cannot clear a key.
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValueTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}

	if err := validate(&cfg, path); err != nil {
		return nil, err
	}

	cfg.LogFile = expandHomePath(cfg.LogFile)
	cfg.AccountsPath = expandHomePath(cfg.AccountsPath)
	cfg.NotifyIcon = expandHomePath(cfg.NotifyIcon)

	return &cfg, nil
}

// parserFor selects the parser from the file extension. Anything that is
// not JSON is treated as dotenv.
func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}
	return dotenv.ParserEnv(EnvPrefix, ".", envTransform)
}

// envTransform converts environment variable names to config keys
// Example: NEOMUTT_CHECK_INTERVAL -> check_interval
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func envValueTransform(key, value string) (string, interface{}) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return envTransform(key), value
}

// EnvKey converts a config key back to its environment variable name.
// Example: accounts_path -> NEOMUTT_ACCOUNTS_PATH
func EnvKey(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

func validate(cfg *Config, path string) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	verr := &ValidationError{FilePath: path}
	for _, fe := range fieldErrs {
		key := EnvKey(fe.Field())
		if fe.Tag() == "required" {
			verr.Missing = append(verr.Missing, key)
			continue
		}
		verr.Invalid = append(verr.Invalid, fmt.Sprintf("%s must be %s %s", key, tagDescription(fe.Tag()), fe.Param()))
	}
	return verr
}

func tagDescription(tag string) string {
	switch tag {
	case "min":
		return "at least"
	case "max":
		return "at most"
	default:
		return tag
	}
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
