// Package leaderboard turns the current predictions and result into ranked
// standings. Standings are recomputed in full on every call; nothing is cached.
package leaderboard

import (
	"cmp"
	"slices"

	"github.com/okian/predictor/internal/domain/model"
	"github.com/okian/predictor/internal/domain/scoring"
	"github.com/okian/predictor/internal/domain/types"
)

// Build computes the board for predictions. present reports whether result
// holds a recorded outcome; result is ignored otherwise.
//
// Without a result, entries keep the input order and carry no points. With a
// result, entries are sorted by points descending; equal totals keep their
// relative input order.
func Build(predictions []model.Prediction, result model.ActualResult, present bool) types.Board {
	entries := make([]types.Entry, len(predictions))
	for i, p := range predictions {
		entries[i] = types.Entry{
			UserID:   p.UserID,
			Username: p.Username,
			Prediction: types.PredictedScore{
				HomeScore: p.HomeScore,
				AwayScore: p.AwayScore,
			},
		}
		if !present {
			continue
		}
		b := scoring.Score(p.MatchFacts, result)
		total := b.Total
		entries[i].Points = &total
		entries[i].Breakdown = &b
	}

	if present {
		slices.SortStableFunc(entries, func(a, b types.Entry) int {
			return cmp.Compare(*b.Points, *a.Points)
		})
	}

	return types.Board{Entries: entries, ResultsAvailable: present}
}
