package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/predictor/internal/config"
	"github.com/okian/predictor/internal/simulate"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		participants = flag.Int("participants", simulate.DefaultParticipants, "Number of participants to generate")
		resubmits    = flag.Int("resubmits", 1, "Extra submissions per participant")
		workers      = flag.Int("workers", simulate.DefaultWorkers, "Number of concurrent workers")
		secret       = flag.String("secret", os.Getenv(config.EnvPrefix+"JWT_SECRET"), "JWT secret shared with the service")
		record       = flag.Bool("result", false, "Record a random result as admin before verifying")
		timeout      = flag.Duration("timeout", simulate.DefaultTimeout, "HTTP request timeout")
		reportFile   = flag.String("report", "", "Write a JSON report to this file")
		logFile      = flag.String("log", "", "Also write logs to this file")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := simulate.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL:      *baseURL,
		Participants: *participants,
		Resubmits:    *resubmits,
		Workers:      *workers,
		Timeout:      *timeout,
		Secret:       *secret,
		RecordResult: *record,
		ReportFile:   *reportFile,
		Verbose:      *verbose,
	}

	if _, err := simulate.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
