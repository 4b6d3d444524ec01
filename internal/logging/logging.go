// Package logging builds the console logger used for validation output.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Options holds configuration for console logging.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultOptions returns default options for console logging: bare messages
// at info level without timestamps.
func DefaultOptions() Options {
	return Options{
		Level:     log.InfoLevel,
		Formatter: log.TextFormatter,
	}
}

// NewConsoleLogger creates a leveled, human-readable logger writing to w.
// A nil w logs to stderr.
func NewConsoleLogger(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
	logger.SetStyles(Styles())
	return logger
}

// NewConsoleLoggerFromConfig creates a logger from string configuration
// values as found in TOML files or environment variables.
func NewConsoleLoggerFromConfig(w io.Writer, level, format string, timestamps, caller bool, prefix string) *log.Logger {
	return NewConsoleLogger(w, Options{
		Level:           ParseLevel(level),
		Formatter:       ParseFormatter(format),
		ReportTimestamp: timestamps,
		ReportCaller:    caller,
		Prefix:          prefix,
	})
}

// Styles returns the log styles: passing files in green, failures in red.
func Styles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Bold(true).
		Foreground(lipgloss.Color("42"))
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Bold(true).
		Foreground(lipgloss.Color("204"))
	styles.Keys["path"] = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styles.Keys["kind"] = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	return styles
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
// Unknown values fall back to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Discard returns a logger that drops everything. Useful for tests and for
// code paths that must stay silent.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
