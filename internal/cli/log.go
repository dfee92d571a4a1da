// Package cli implements the kgview command-line interface.
//
// The CLI hosts both adapters of the explorer core: an HTTP server for a
// browser front end and a terminal explorer. It also offers one-shot
// commands for scripting and for managing the cache and configuration.
//
// # Commands
//
// The main commands are:
//   - serve: Serve a dataset to the browser explorer
//   - explore: Explore a dataset in the terminal
//   - search: Suggest and resolve node ids
//   - inspect: Print a node's neighborhood, optionally as an SVG snapshot
//   - cache, config: Manage the dataset cache and the config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces selection, highlight and cache events. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Loaded graph.json (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
