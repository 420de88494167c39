package probe

import (
	"os"

	"github.com/okian/sheetcount/pkg/logger"
)

// SetupLogging initializes the global logger for the probe.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return err
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return logger.SetLevelString("info")
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	os.Stdout.WriteString(`Sheet Row Count Probe
=====================

Calls GET /sheets/row-count on a running service several times and checks
that every response is identical.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -requests int
        Number of sequential requests (default 3)
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Log every response
  -help
        Show this help message

Exit status is non-zero when a request fails or responses differ.
`)
}
