// Package types contains read shapes shared by the service and the HTTP API.
package types

import "github.com/okian/predictor/internal/domain/scoring"

// PredictedScore is the scoreline part of a prediction shown on the board.
type PredictedScore struct {
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
}

// Entry is one leaderboard row. Points and Breakdown are nil until a result
// has been recorded.
type Entry struct {
	UserID     string                   `json:"userId"`
	Username   string                   `json:"username"`
	Points     *int                     `json:"points"`
	Breakdown  *scoring.PointsBreakdown `json:"breakdown"`
	Prediction PredictedScore           `json:"prediction"`
}

// Board is a computed leaderboard.
type Board struct {
	Entries          []Entry `json:"leaderboard"`
	ResultsAvailable bool    `json:"resultsAvailable"`
}
