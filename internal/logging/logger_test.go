package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// captureLogOutput is a test helper to capture console log output
func captureLogOutput(level string, fn func()) string {
	var buf bytes.Buffer

	SetConsoleOutput(&buf)
	SetLevel(level)

	fn()

	// Restore defaults for the next test
	SetConsoleOutput(os.Stderr)
	SetLevel("WARN")

	return strings.TrimSpace(buf.String())
}

// TestLogLevels tests that logging functions work at different levels
func TestLogLevels(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func()
		expected string
	}{
		{
			name: "Info level",
			logFunc: func() {
				Info("test info message")
			},
			expected: "test info message",
		},
		{
			name: "Warn level",
			logFunc: func() {
				Warn("test warn message")
			},
			expected: "test warn message",
		},
		{
			name: "Error level",
			logFunc: func() {
				Error("test error message")
			},
			expected: "test error message",
		},
		{
			name: "Success level",
			logFunc: func() {
				Success("test success message")
			},
			expected: "test success message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLogOutput("DEBUG", tt.logFunc)

			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain '%s', got '%s'", tt.expected, output)
			}
		})
	}
}

// TestSetLevel tests that log level filtering works correctly
func TestSetLevel(t *testing.T) {
	tests := []struct {
		name         string
		level        string
		logFunc      func()
		shouldOutput bool
	}{
		{
			name:  "Info logged at INFO level",
			level: "INFO",
			logFunc: func() {
				Info("info message")
			},
			shouldOutput: true,
		},
		{
			name:  "Debug filtered at INFO level",
			level: "INFO",
			logFunc: func() {
				Debug("debug message")
			},
			shouldOutput: false,
		},
		{
			name:  "Error logged at WARN level",
			level: "WARN",
			logFunc: func() {
				Error("error message")
			},
			shouldOutput: true,
		},
		{
			name:  "Info filtered at WARN level",
			level: "WARN",
			logFunc: func() {
				Info("info message")
			},
			shouldOutput: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLogOutput(tt.level, tt.logFunc)

			if tt.shouldOutput && output == "" {
				t.Error("Expected output but got none")
			}
			if !tt.shouldOutput && output != "" {
				t.Errorf("Expected no output but got: %s", output)
			}
		})
	}
}

// TestLogFormatting tests formatted logging
func TestLogFormatting(t *testing.T) {
	output := captureLogOutput("DEBUG", func() {
		Info("formatted %s %d", "message", 123)
	})

	expected := "formatted message 123"
	if !strings.Contains(output, expected) {
		t.Errorf("Expected output to contain '%s', got '%s'", expected, output)
	}
}

// TestValidateLogLevel tests the canonical level set
func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		if err := ValidateLogLevel(level); err != nil {
			t.Errorf("ValidateLogLevel(%q) = %v, want nil", level, err)
		}
	}
	for _, level := range []string{"", "TRACE", "warn"} {
		if err := ValidateLogLevel(level); err == nil {
			t.Errorf("ValidateLogLevel(%q) = nil, want error", level)
		}
	}
}

// TestLevelForVerbosity tests the -v count to level mapping
func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		count    int
		expected string
	}{
		{0, "WARN"},
		{1, "INFO"},
		{2, "DEBUG"},
		{4, "DEBUG"},
		{-1, "WARN"},
	}

	for _, tt := range tests {
		if got := LevelForVerbosity(tt.count); got != tt.expected {
			t.Errorf("LevelForVerbosity(%d) = %q, want %q", tt.count, got, tt.expected)
		}
	}
}
