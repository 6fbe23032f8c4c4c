package simulate

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/momentum/pkg/logger"
)

// SetupLogging initializes the global logger for the CLI, writing JSON to
// logFile as well as stdout when a file is given.
func SetupLogging(logFile string, verbose bool) error {
	opts := []logger.Option{logger.WithFormat(logger.FormatText)}
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		opts = []logger.Option{
			logger.WithFormat(logger.FormatJSON),
			logger.WithOutput(io.MultiWriter(os.Stdout, file)),
		}
	}

	if err := logger.InitWithOptions(opts...); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the simulation tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Momentum Simulation Tool
========================

Generates synthetic best-of-three tennis matches, registers them with a running
momentum service, fetches their momentum output and verifies it.

Usage:
  go run ./cmd/simulate [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -matches int
        Number of matches to generate (default 200)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -seed uint
        Generator seed; equal seeds produce equal matches (default 1)
  -output string
        Write the generated matches to this JSON file
  -log string
        Also write JSON logs to this file
  -verbose
        Log every verified match
  -help
        Show this help message

Examples:
  # Verify 1000 matches against a local service
  go run ./cmd/simulate -matches 1000

  # Produce a catalog file without keeping the run log
  go run ./cmd/simulate -matches 20 -output testdata/catalog.json
`)
}
