// Package utils provides utility functions for the qpc CLI.
// This file contains logging setup shared by every command.
package utils

import (
	"github.com/quipucords/qpc/cmd/qpc/config"
	"github.com/quipucords/qpc/internal/logging"
)

// SetupLogging configures CLI logging from the root command's verbosity
// count and tees all records to <data-dir>/qpc.log. No flag keeps the
// console at WARN; -v raises to INFO, -vv and beyond to DEBUG with full
// request/response traces.
func SetupLogging(verbosity int) {
	logging.SetLevel(logging.LevelForVerbosity(verbosity))
	logging.SetLogFile(config.LogFilePath())
}
