// Package scoring converts a prediction and the actual result into a
// per-category points breakdown.
//
// Scoring is pure: no I/O, no shared state and no validation. Values outside
// their declared ranges are compared arithmetically like any other integer.
package scoring

import "github.com/okian/predictor/internal/domain/model"

// Points awarded per category.
const (
	ExactPoints     = 10
	OutcomePoints   = 5
	CloseBandPoints = 5
	WideBandPoints  = 3

	// MaxTotal is the best achievable total across the five categories.
	MaxTotal = 5 * ExactPoints
)

// Outcome is the win/draw/loss label of a scoreline from the home side's view.
type Outcome int

// Outcome values.
const (
	Loss Outcome = iota - 1
	Draw
	Win
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "W"
	case Draw:
		return "D"
	default:
		return "L"
	}
}

// Classify labels a scoreline.
func Classify(home, away int) Outcome {
	switch {
	case home > away:
		return Win
	case home == away:
		return Draw
	default:
		return Loss
	}
}

// PointsBreakdown is the five category subscores and their sum.
type PointsBreakdown struct {
	ScorePoints       int `json:"scorePoints"`
	FirstGoalPoints   int `json:"firstGoalPoints"`
	FirstScorerPoints int `json:"firstScorerPoints"`
	CornersPoints     int `json:"cornersPoints"`
	PossessionPoints  int `json:"possessionPoints"`
	Total             int `json:"total"`
}

// band awards points when the absolute difference is at most maxDiff.
type band struct {
	maxDiff int
	points  int
}

// Bands are ordered strictest first; the first match wins.
var (
	firstGoalBands  = []band{{0, ExactPoints}, {3, CloseBandPoints}, {5, WideBandPoints}}
	cornersBands    = []band{{0, ExactPoints}, {1, CloseBandPoints}, {2, WideBandPoints}}
	possessionBands = []band{{0, ExactPoints}, {2, CloseBandPoints}, {3, WideBandPoints}}
)

// Score computes the breakdown of prediction against actual.
func Score(prediction, actual model.MatchFacts) PointsBreakdown {
	b := PointsBreakdown{
		ScorePoints:       scoreline(prediction, actual),
		FirstGoalPoints:   banded(prediction.FirstGoalMinute-actual.FirstGoalMinute, firstGoalBands),
		FirstScorerPoints: exact(prediction.FirstScorerID, actual.FirstScorerID),
		CornersPoints:     banded(prediction.Corners-actual.Corners, cornersBands),
		PossessionPoints:  banded(prediction.Possession-actual.Possession, possessionBands),
	}
	b.Total = b.ScorePoints + b.FirstGoalPoints + b.FirstScorerPoints + b.CornersPoints + b.PossessionPoints
	return b
}

func scoreline(p, a model.MatchFacts) int {
	if p.HomeScore == a.HomeScore && p.AwayScore == a.AwayScore {
		return ExactPoints
	}
	if Classify(p.HomeScore, p.AwayScore) == Classify(a.HomeScore, a.AwayScore) {
		return OutcomePoints
	}
	return 0
}

func exact(p, a int) int {
	if p == a {
		return ExactPoints
	}
	return 0
}

func banded(diff int, bands []band) int {
	if diff < 0 {
		diff = -diff
	}
	for _, b := range bands {
		if diff <= b.maxDiff {
			return b.points
		}
	}
	return 0
}
