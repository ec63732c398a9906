// Package logging provides the application loggers.
//
// Debug and Scanner write to debug.log in the working directory when the
// SPACEMAP_DEBUG environment variable is set and discard output otherwise.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// DebugEnv enables the debug.log file loggers when set
const DebugEnv = "SPACEMAP_DEBUG"

var (
	Debug   *log.Logger
	Scanner *log.Logger
	Enabled bool
)

func init() {
	if os.Getenv(DebugEnv) == "" {
		Debug = Discard()
		Scanner = Discard()
		return
	}

	Enabled = true

	var w io.Writer = os.Stderr
	if f, err := os.OpenFile("debug.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		w = f
	}
	base := New(w, log.DebugLevel)
	Debug = base.WithPrefix("debug")
	Scanner = base.WithPrefix("scanner")
}

// New creates a logger with timestamps formatted as "HH:MM:SS.ms"
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OrDiscard returns l, or a discarding logger when l is nil
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
