// Package logger provides the process-wide structured logger for mmt,
// built on log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// discard stands in for the logger before Init.
var discard = slog.New(slog.DiscardHandler)

// Options configures the logger.
type Options struct {
	// Verbose enables debug-level logging
	Verbose bool
	// Output is the writer for log output (defaults to os.Stderr)
	Output io.Writer
	// JSON enables JSON-formatted output
	JSON bool
}

// Init initializes the global logger with the given options.
// Only the first call takes effect.
func Init(opts Options) {
	once.Do(func() {
		output := opts.Output
		if output == nil {
			output = os.Stderr
		}

		level := slog.LevelError
		if opts.Verbose {
			level = slog.LevelDebug
		}
		handlerOpts := &slog.HandlerOptions{Level: level}

		var handler slog.Handler
		if opts.JSON {
			handler = slog.NewJSONHandler(output, handlerOpts)
		} else {
			handler = slog.NewTextHandler(output, handlerOpts)
		}

		log = slog.New(handler).With("app", "mmt")
	})
}

// Reset resets the logger. Used for testing.
func Reset() {
	once = sync.Once{}
	log = nil
}

// Enabled reports whether a record at level would be written.
func Enabled(level slog.Level) bool {
	return log != nil && log.Enabled(context.Background(), level)
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	if log != nil {
		log.Debug(msg, args...)
	}
}

// Info logs at info level.
func Info(msg string, args ...any) {
	if log != nil {
		log.Info(msg, args...)
	}
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	if log != nil {
		log.Warn(msg, args...)
	}
}

// Error logs at error level.
func Error(msg string, args ...any) {
	if log != nil {
		log.Error(msg, args...)
	}
}

// For returns a logger whose records carry the given component. It discards
// everything until Init has run.
func For(component string) *slog.Logger {
	if log == nil {
		return discard
	}
	return log.With("component", component)
}
