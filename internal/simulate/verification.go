package simulate

import (
	"errors"
	"fmt"

	"github.com/okian/predictor/internal/domain/model"
	"github.com/okian/predictor/internal/domain/scoring"
	"github.com/okian/predictor/internal/domain/types"
)

// ErrVerification is wrapped by every leaderboard mismatch.
var ErrVerification = errors.New("leaderboard verification failed")

// verifyLeaderboard checks board against the predictions this run submitted.
// The board may hold entries from other clients; only ours are scored locally.
func verifyLeaderboard(board types.Board, participants []Participant, result *model.ActualResult) error {
	if result != nil && !board.ResultsAvailable {
		return fmt.Errorf("%w: result recorded but resultsAvailable is false", ErrVerification)
	}

	seen := make(map[string]bool, len(board.Entries))
	for i, e := range board.Entries {
		if seen[e.UserID] {
			return fmt.Errorf("%w: user %s listed twice", ErrVerification, e.UserID)
		}
		seen[e.UserID] = true

		if !board.ResultsAvailable {
			if e.Points != nil || e.Breakdown != nil {
				return fmt.Errorf("%w: entry %d scored without a result", ErrVerification, i)
			}
			continue
		}
		if e.Points == nil || e.Breakdown == nil {
			return fmt.Errorf("%w: entry %d missing points", ErrVerification, i)
		}
		if *e.Points != e.Breakdown.Total {
			return fmt.Errorf("%w: entry %d points %d != breakdown total %d", ErrVerification, i, *e.Points, e.Breakdown.Total)
		}
		if i > 0 && *board.Entries[i-1].Points < *e.Points {
			return fmt.Errorf("%w: entry %d ranked above a higher score", ErrVerification, i-1)
		}
	}

	for _, p := range participants {
		if !seen[p.UserID] {
			return fmt.Errorf("%w: user %s missing", ErrVerification, p.UserID)
		}
	}

	if result == nil {
		return nil
	}

	byUser := make(map[string]types.Entry, len(board.Entries))
	for _, e := range board.Entries {
		byUser[e.UserID] = e
	}
	for _, p := range participants {
		e := byUser[p.UserID]
		want := scoring.Score(p.Prediction, *result)
		if *e.Breakdown != want {
			return fmt.Errorf("%w: user %s breakdown %+v, want %+v", ErrVerification, p.UserID, *e.Breakdown, want)
		}
		if e.Prediction.HomeScore != p.Prediction.HomeScore || e.Prediction.AwayScore != p.Prediction.AwayScore {
			return fmt.Errorf("%w: user %s shows a stale prediction", ErrVerification, p.UserID)
		}
	}
	return nil
}
