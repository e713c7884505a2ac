// Package simulate drives a running predictor over HTTP with generated
// participants and checks the leaderboard it serves.
package simulate

import (
	"time"

	"github.com/okian/predictor/internal/domain/model"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Participants int           // Number of participants to generate
	Resubmits    int           // Extra submissions per participant
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	Secret       string        // JWT secret shared with the service
	TokenTTL     time.Duration // Lifetime of generated tokens
	RecordResult bool          // Record a random result as admin before verifying
	ReportFile   string        // Optional JSON report of the run
	Verbose      bool          // Enable per-request logging
}

// Participant is a generated user and the prediction it ends up with.
type Participant struct {
	UserID     string           `json:"userId"`
	Username   string           `json:"username"`
	Token      string           `json:"-"`
	Prediction model.MatchFacts `json:"prediction"`
	Accepted   bool             `json:"accepted"`
}

// Stats holds run statistics.
type Stats struct {
	ParticipantsGenerated int           `json:"participantsGenerated"`
	SubmissionsSent       int           `json:"submissionsSent"`
	SubmissionsAccepted   int           `json:"submissionsAccepted"`
	SubmissionsLocked     int           `json:"submissionsLocked"`
	SubmissionsFailed     int           `json:"submissionsFailed"`
	ResultRecorded        bool          `json:"resultRecorded"`
	LeaderboardEntries    int           `json:"leaderboardEntries"`
	StartTime             time.Time     `json:"startTime"`
	EndTime               time.Time     `json:"endTime"`
	Duration              time.Duration `json:"duration"`
}

// Report is what a run writes to ReportFile.
type Report struct {
	Stats        Stats               `json:"stats"`
	Result       *model.ActualResult `json:"result,omitempty"`
	Participants []Participant       `json:"participants"`
}
