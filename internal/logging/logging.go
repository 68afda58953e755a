// Package logging provides the application logger.
//
// Components depend on the small Logger interface so tests can pass Discard
// and the CLI can pass a charmbracelet logger writing to stderr.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the printf-style logging interface used across the application.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// charmLogger adapts *log.Logger to Logger.
type charmLogger struct {
	l *log.Logger
}

func (c charmLogger) Debug(msg string, args ...interface{}) { c.l.Debugf(msg, args...) }
func (c charmLogger) Info(msg string, args ...interface{})  { c.l.Infof(msg, args...) }
func (c charmLogger) Warn(msg string, args ...interface{})  { c.l.Warnf(msg, args...) }
func (c charmLogger) Error(msg string, args ...interface{}) { c.l.Errorf(msg, args...) }

// New creates a logger writing to stderr.
//
// PARAMETERS:
//   - level: "debug", "info", "warn" or "error". Unknown values mean "info".
//   - verbose: Forces debug level.
func New(level string, verbose bool) Logger {
	return NewWriter(os.Stderr, level, verbose)
}

// NewWriter creates a logger writing to w.
func NewWriter(w io.Writer, level string, verbose bool) Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	return charmLogger{l: log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "recibos",
		ReportTimestamp: verbose,
	})}
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return charmLogger{l: log.New(io.Discard)}
}
