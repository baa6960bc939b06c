// Package cli implements the figpanel command-line interface.
//
// # Commands
//
//   - compose: Measure the inputs, lay them out and write the page
//   - layout: Dry run that prints the computed rows and rectangles
//   - serve: HTTP API for layout computation
//   - cache: Manage the metrics cache
//   - completion: Shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Structured
// logs go to stderr through charmbracelet/log; status lines go to stdout.
package cli

import (
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

// done logs msg along with the elapsed time, e.g. "Composed 4 panels (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
