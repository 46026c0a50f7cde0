// Package logging sets up the charmbracelet/log logger and carries it
// through context.Context.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a logger that writes to w and filters below level.
// Timestamps are formatted as "HH:MM:SS.ms".
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "jsonfmt",
	})
}

// Level maps the debug switch to a log level.
func Level(debug bool) log.Level {
	if debug {
		return log.DebugLevel
	}
	return log.WarnLevel
}

// OpenFile opens path for appending log output. The returned close function
// is never nil.
func OpenFile(path string) (io.Writer, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, func() error { return nil }, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, log.FatalLevel)
}

// Timer logs completion of an operation with its elapsed time.
type Timer struct {
	logger *log.Logger
	start  time.Time
}

// Start begins timing an operation.
func Start(l *log.Logger) *Timer {
	return &Timer{logger: l, start: time.Now()}
}

// Done logs msg at debug level along with the elapsed time.
func (t *Timer) Done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(t.start).Round(time.Microsecond))
	t.logger.Debug(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger carried by ctx, or log.Default().
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
