// Package logging provides structured, colorful logging utilities for the qpc
// CLI, ensuring consistent log formatting across every command and the shared
// request lifecycle.
//
// Implements a unified logging interface that standardizes log output from
// command handlers, the HTTP transport, and the local state store. Uses
// color-coded log levels and consistent timestamp formatting to improve
// operational visibility and debugging efficiency.
//
// LOGGING FEATURES:
//   - Color-coded levels: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green)
//   - Log file tee: every record is appended to <data-dir>/qpc.log in addition to stderr
//   - Flexible output: verbosity flags map to log levels without touching the file sink
//
// User-facing command output (confirmation lines, rendered results) goes to
// stdout through the display package; this package carries diagnostics only,
// so scripting against qpc's stdout stays reliable.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// Console logger for diagnostics (stderr, follows Unix conventions)
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	// Tracks the console writer so Success can build its styled logger
	// against the same destination
	consoleOutput io.Writer = os.Stderr

	// Optional append-only log file; receives every record regardless of
	// the console verbosity level
	fileLogger *log.Logger
)

// setupCustomStyles configures custom color schemes for log levels to improve
// visual distinction while reading command diagnostics.
//
// Provides carefully chosen colors that work well in both light and dark
// terminals while maintaining readability for interactive troubleshooting.
func setupCustomStyles() *log.Styles {
	styles := log.DefaultStyles()

	// DEBUG: light purple
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(lipgloss.Color("#7F6DFF"))

	// INFO: light blue
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#42E7FF"))

	// WARN: light yellow
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFE763"))

	// ERROR: light red/pink
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(lipgloss.Color("#FF4473"))

	return styles
}

// init sets up custom color styling on package initialization for consistent
// visual formatting across all qpc logging output.
func init() {
	logger.SetStyles(setupCustomStyles())
	logger.SetLevel(log.WarnLevel)
}

// Info logs informational messages about command progress and request dispatch.
func Info(format string, v ...any) {
	logger.Info(fmt.Sprintf(format, v...))
	if fileLogger != nil {
		fileLogger.Info(fmt.Sprintf(format, v...))
	}
}

// Warn logs warning messages for non-critical issues requiring attention,
// such as an unreadable server.config that callers treat as "not configured".
func Warn(format string, v ...any) {
	logger.Warn(fmt.Sprintf(format, v...))
	if fileLogger != nil {
		fileLogger.Warn(fmt.Sprintf(format, v...))
	}
}

// Error logs error messages for failures: transport errors, non-2xx server
// responses, and per-field validation messages from error bodies.
func Error(format string, v ...any) {
	logger.Error(fmt.Sprintf(format, v...))
	if fileLogger != nil {
		fileLogger.Error(fmt.Sprintf(format, v...))
	}
}

// Debug logs detailed debugging information including every HTTP request and
// response exchanged with the server.
func Debug(format string, v ...any) {
	logger.Debug(fmt.Sprintf(format, v...))
	if fileLogger != nil {
		fileLogger.Debug(fmt.Sprintf(format, v...))
	}
}

// Success logs successful operations in green using INFO level with custom
// styling. Implements a custom SUCCESS level that respects INFO filtering.
func Success(format string, v ...any) {
	if fileLogger != nil {
		fileLogger.Info(fmt.Sprintf(format, v...))
	}
	if logger.GetLevel() > log.InfoLevel {
		return // Skip if INFO level is suppressed
	}

	// Temporary logger overriding the INFO label with "SUCCESS" in light green
	styles := setupCustomStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color("#60F281"))

	tempLogger := log.NewWithOptions(consoleOutput, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	tempLogger.SetStyles(styles)
	tempLogger.Info(fmt.Sprintf(format, v...))
}

// SetConsoleOutput redirects console diagnostics to the given writer.
// Used by tests to capture log output; the log file tee is unaffected.
func SetConsoleOutput(w io.Writer) {
	consoleOutput = w
	level := logger.GetLevel()
	logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	logger.SetStyles(setupCustomStyles())
	logger.SetLevel(level)
}

// SetLevel configures the minimum console logging level. Accepts standard
// level strings (DEBUG, INFO, WARN, ERROR); the verbosity flag on the root
// command maps straight onto these. The log file always records at DEBUG.
func SetLevel(level string) {
	if err := ValidateLogLevel(level); err != nil {
		Warn("%v, keeping WARN", err)
		level = "WARN"
	}

	var logLevel log.Level
	switch level {
	case "DEBUG":
		logLevel = log.DebugLevel
	case "INFO":
		logLevel = log.InfoLevel
	case "ERROR":
		logLevel = log.ErrorLevel
	default:
		logLevel = log.WarnLevel
	}
	logger.SetLevel(logLevel)
}

// SetLogFile opens (appending) the given path and tees every record to it.
// Failure to open the file is reported once at WARN and logging continues
// console-only; a broken data directory must not block command execution.
func SetLogFile(path string) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		Warn("cannot open log file %s: %v", path, err)
		return
	}
	fileLogger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	fileLogger.SetLevel(log.DebugLevel)
}
