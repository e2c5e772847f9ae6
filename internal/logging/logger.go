// Package logging builds the zap logger used for diagnostics.
// Diagnostics go to stderr (and optionally a file) so they never mix with the
// reply printed on stdout.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a subsystem; it becomes the zap logger name.
type Category string

const (
	CategoryBoot  Category = "boot"  // Settings and startup
	CategoryStore Category = "store" // Config file lifecycle
	CategorySetup Category = "setup" // Interactive setup
	CategoryAPI   Category = "api"   // Chat-completion exchange
)

// Options configures New.
type Options struct {
	Level string // debug, info, warn, error; empty means warn
	File  string // optional extra output path
}

// New builds a zap logger writing human-readable lines to stderr at the given
// level. Stack traces are never attached.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	if opts.File != "" {
		config.OutputPaths = append(config.OutputPaths, opts.File)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// For returns the named child logger for category.
func For(logger *zap.Logger, category Category) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.Named(string(category))
}
