// Package logging provides centralized log level handling for the qpc CLI.
//
// This file defines the canonical set of valid log levels and the mapping
// from the root command's repeatable -v flag onto them. Centralizing the
// mapping keeps the CLI flag surface and the logging backend in agreement.
//
// SUPPORTED LOG LEVELS:
//   - DEBUG: Detailed debugging information including HTTP request traces
//   - INFO:  General operational information about command progress
//   - WARN:  Warning conditions that should be noted but don't stop operation
//   - ERROR: Error conditions that indicate problems requiring attention
package logging

import "fmt"

// ValidLogLevels defines the canonical set of supported log levels.
var ValidLogLevels = map[string]bool{
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
}

// IsValidLogLevel checks if the provided log level string is supported.
func IsValidLogLevel(level string) bool {
	return ValidLogLevels[level]
}

// ValidateLogLevel validates a log level string and returns an error if invalid.
func ValidateLogLevel(level string) error {
	if !IsValidLogLevel(level) {
		return fmt.Errorf("invalid log level: %s", level)
	}
	return nil
}

// LevelForVerbosity maps the count of -v flags to a console log level.
// No flag keeps the default WARN; one -v enables INFO; two or more enable
// DEBUG including full request/response traces.
func LevelForVerbosity(count int) string {
	switch {
	case count <= 0:
		return "WARN"
	case count == 1:
		return "INFO"
	default:
		return "DEBUG"
	}
}
