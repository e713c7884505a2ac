// Package model contains domain models passed between layers.
package model

import "time"

// MatchFacts are the six scored facts of a fixture. Predictions and the
// actual result share this shape.
type MatchFacts struct {
	HomeScore       int `json:"homeScore"`
	AwayScore       int `json:"awayScore"`
	FirstGoalMinute int `json:"firstGoalMinute"` // 1..90
	FirstScorerID   int `json:"firstScorerId"`
	Corners         int `json:"corners"`
	Possession      int `json:"possession"` // home side, away is 100 - value
}

// AwayPossession returns the away side's share of possession.
func (f MatchFacts) AwayPossession() int {
	return 100 - f.Possession
}

// Prediction is a participant's guess. At most one exists per UserID.
type Prediction struct {
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	SubmittedAt time.Time `json:"submittedAt"`
	MatchFacts
}

// ActualResult is the administrator-recorded outcome of the fixture.
// Whether one has been recorded is tracked by the result store, never by
// the field values.
type ActualResult = MatchFacts

// Player is an entry in the fixture roster; FirstScorerID refers to Player.ID.
type Player struct {
	ID     int    `json:"id" koanf:"id"`
	Name   string `json:"name" koanf:"name"`
	Number int    `json:"number" koanf:"number"`
	Team   string `json:"team,omitempty" koanf:"team"`
}

// Fixture describes the single match predictions are made for.
type Fixture struct {
	HomeTeam string    `json:"homeTeam" koanf:"home_team"`
	AwayTeam string    `json:"awayTeam" koanf:"away_team"`
	Kickoff  time.Time `json:"kickoff" koanf:"kickoff"`
	Venue    string    `json:"venue,omitempty" koanf:"venue"`
}
