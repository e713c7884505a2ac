package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/predictor/internal/adapters/http/auth"
	"github.com/okian/predictor/internal/domain/model"
	"github.com/okian/predictor/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	reportPermission    = 0o600
)

// withDefaults fills zero fields of cfg.
func withDefaults(cfg Config) Config {
	if cfg.Participants <= 0 {
		cfg.Participants = DefaultParticipants
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.Resubmits < 0 {
		cfg.Resubmits = 0
	}
	return cfg
}

// Run executes a complete simulation and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	cfg := withDefaults(*config)
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting predictor simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("participants", cfg.Participants),
		logger.Int("resubmits", cfg.Resubmits),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Bool("recordResult", cfg.RecordResult))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	signer := auth.JWT{Secret: []byte(cfg.Secret), TokenTTL: cfg.TokenTTL}

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	participants, err := generateParticipants(ctx, signer, cfg.Participants)
	if err != nil {
		return stats, fmt.Errorf("participant generation failed: %w", err)
	}
	stats.ParticipantsGenerated = len(participants)

	accepted := submitPredictions(ctx, &cfg, client, participants, stats)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	var result *model.ActualResult
	if cfg.RecordResult {
		token, err := adminToken(signer)
		if err != nil {
			return stats, fmt.Errorf("sign admin token: %w", err)
		}
		r, err := recordResult(ctx, client, token)
		if err != nil {
			return stats, fmt.Errorf("result recording failed: %w", err)
		}
		result = &r
		stats.ResultRecorded = true
		log.Info(ctx, "result recorded",
			logger.Int("home", r.HomeScore),
			logger.Int("away", r.AwayScore))
	}

	board, err := getLeaderboard(ctx, client)
	if err != nil {
		return stats, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	stats.LeaderboardEntries = len(board.Entries)

	verifyErr := verifyLeaderboard(board, accepted, result)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if cfg.ReportFile != "" {
		if err := saveReport(ctx, cfg.ReportFile, Report{Stats: *stats, Result: result, Participants: participants}); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	if verifyErr != nil {
		return stats, verifyErr
	}
	log.Info(ctx, "simulation completed successfully")
	return stats, nil
}

// saveReport writes the run report as indented JSON.
func saveReport(ctx context.Context, filename string, report Report) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Get().Info(ctx, "report saved", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var acceptRate, perSecond float64

	if stats.SubmissionsSent > 0 {
		acceptRate = float64(stats.SubmissionsAccepted) / float64(stats.SubmissionsSent) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.SubmissionsSent) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("participantsGenerated", stats.ParticipantsGenerated),
		logger.Int("submissionsSent", stats.SubmissionsSent),
		logger.Int("submissionsAccepted", stats.SubmissionsAccepted),
		logger.Int("submissionsLocked", stats.SubmissionsLocked),
		logger.Int("submissionsFailed", stats.SubmissionsFailed),
		logger.Bool("resultRecorded", stats.ResultRecorded),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("submissionsPerSecond", perSecond))
}
