// Package logging implements ports.Logger for the job editor: a console
// logger with text or JSON output and a logger that discards everything.
package logging

import (
	"context"
	"io"

	"github.com/felixgeelhaar/jobeditor/internal/ports"
)

// NopLogger discards all messages.
type NopLogger struct {
	level ports.Level
}

// NewNopLogger creates a new no-op logger.
func NewNopLogger() *NopLogger {
	return &NopLogger{level: ports.LevelInfo}
}

// Debug does nothing.
func (l *NopLogger) Debug(_ context.Context, _ string, _ ...ports.Field) {}

// Info does nothing.
func (l *NopLogger) Info(_ context.Context, _ string, _ ...ports.Field) {}

// Warn does nothing.
func (l *NopLogger) Warn(_ context.Context, _ string, _ ...ports.Field) {}

// Error does nothing.
func (l *NopLogger) Error(_ context.Context, _ string, _ ...ports.Field) {}

// With returns itself.
func (l *NopLogger) With(_ ...ports.Field) ports.Logger {
	return l
}

// Level returns the log level.
func (l *NopLogger) Level() ports.Level {
	return l.level
}

// SetLevel sets the log level.
func (l *NopLogger) SetLevel(level ports.Level) {
	l.level = level
}

var _ ports.Logger = (*NopLogger)(nil)

// Options describes how the command line wants its logger built.
type Options struct {
	Level ports.Level
	JSON  bool
	// Quiet discards everything, used while the terminal UI owns the screen
	// and no log file was requested.
	Quiet bool
}

// New builds the logger for the given options writing to out.
func New(out io.Writer, opts Options) ports.Logger {
	if opts.Quiet || out == nil {
		return NewNopLogger()
	}
	return NewConsoleLogger(
		WithOutput(out),
		WithLevel(opts.Level),
		WithJSONFormat(opts.JSON),
		WithTimestamp(opts.JSON),
	)
}
