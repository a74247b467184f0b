// Package logging builds the syncmail logger: zap writing to an append-only,
// size-rotated log file.
package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the rotating log file.
type Options struct {
	// File is the log destination. Parent directories are created on first write.
	File string
	// MaxSizeMB is the size in megabytes at which the file is rotated.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept.
	MaxBackups int
	// Debug lowers the level to debug.
	Debug bool
}

// New returns a sugared logger and a close function that flushes and
// releases the log file.
func New(opts Options) (*zap.SugaredLogger, func() error, error) {
	if opts.File == "" {
		return nil, nil, fmt.Errorf("log file path is required")
	}

	sink := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(sink), level)
	logger := zap.New(core).Named("syncmail")

	closeFn := func() error {
		_ = logger.Sync()
		return sink.Close()
	}
	return logger.Sugar(), closeFn, nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05,000"))
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " - "
	return cfg
}
