package smoke

import (
	"fmt"
	"os"

	"github.com/okian/swc/pkg/logger"
)

// SetupLogging initializes the global logger for the smoke tool.
func SetupLogging(format string, verbose bool) error {
	if err := logger.InitWithFormat(format, os.Stdout); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`SWC API Smoke Check
===================

Walks a running SWC API through the client SDK: health, counts and a paged
walk of players, leagues and teams checking for duplicates and totals.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the API (default "http://localhost:8000", or SWC_API_BASE_URL)
  -page int
        Page size used for the walk (default 50)
  -timeout duration
        Per-request HTTP timeout (default 10s)
  -backoff
        Retry transient failures (default true)
  -log-format string
        text or json (default "text")
  -verbose
        Log every page
  -help
        Show this help message

Examples:
  # Check a local server
  go run ./cmd/smoke

  # Walk in pages of 7 with debug output
  go run ./cmd/smoke -page 7 -verbose
`)
}
