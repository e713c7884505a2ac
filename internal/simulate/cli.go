package simulate

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/predictor/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging initializes the global logger, teeing to logFile when set.
func SetupLogging(logFile string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.Init(logger.WithWriter(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Predictor Simulator
===================

Generates participants, submits predictions concurrently, optionally records
a result as admin and verifies the leaderboard against local scoring.

Usage:
  simulate [flags]

Flags:
  -url string        Base URL of the service (default "http://localhost:9080")
  -participants int  Number of participants (default 200)
  -resubmits int     Extra submissions per participant (default 1)
  -workers int       Concurrent workers (default 8)
  -secret string     JWT secret (default $PREDICTOR_JWT_SECRET)
  -result            Record a random result before verifying
  -timeout duration  HTTP request timeout (default 10s)
  -report string     Write a JSON report to this file
  -log string        Also write logs to this file
  -verbose           Log every request

The verification checks that every accepted participant appears once, that
points are non-increasing, and that each breakdown matches local scoring.
`)
}
