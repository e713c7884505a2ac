package leaderboard_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/okian/predictor/internal/domain/leaderboard"
	"github.com/okian/predictor/internal/domain/model"
	"github.com/okian/predictor/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func pred(id string, f model.MatchFacts) model.Prediction {
	return model.Prediction{UserID: id, Username: "name-" + id, MatchFacts: f}
}

var actual = model.ActualResult{
	HomeScore: 2, AwayScore: 1, FirstGoalMinute: 30, FirstScorerID: 9, Corners: 6, Possession: 52,
}

func TestBuild_NoResult(t *testing.T) {
	Convey("Given predictions and no recorded result", t, func() {
		preds := []model.Prediction{
			pred("c", model.MatchFacts{HomeScore: 0, AwayScore: 3}),
			pred("a", actual),
			pred("b", model.MatchFacts{HomeScore: 1, AwayScore: 1}),
		}

		Convey("When building the board", func() {
			board := leaderboard.Build(preds, actual, false)

			Convey("Then no entry is scored and input order is kept", func() {
				So(board.ResultsAvailable, ShouldBeFalse)
				So(board.Entries, ShouldHaveLength, 3)
				for i, e := range board.Entries {
					So(e.UserID, ShouldEqual, preds[i].UserID)
					So(e.Points, ShouldBeNil)
					So(e.Breakdown, ShouldBeNil)
				}
			})

			Convey("And the predicted scoreline is still shown", func() {
				So(board.Entries[0].Username, ShouldEqual, "name-c")
				So(board.Entries[0].Prediction.HomeScore, ShouldEqual, 0)
				So(board.Entries[0].Prediction.AwayScore, ShouldEqual, 3)
			})
		})
	})
}

func TestBuild_WithResult(t *testing.T) {
	Convey("Given predictions and a recorded result", t, func() {
		weak := model.MatchFacts{HomeScore: 0, AwayScore: 2, FirstGoalMinute: 80, FirstScorerID: 1, Corners: 15, Possession: 30}
		mid := model.MatchFacts{HomeScore: 3, AwayScore: 0, FirstGoalMinute: 33, FirstScorerID: 9, Corners: 7, Possession: 60}
		preds := []model.Prediction{
			pred("weak", weak),
			pred("mid", mid),
			pred("perfect", actual),
		}

		Convey("When building the board", func() {
			board := leaderboard.Build(preds, actual, true)

			Convey("Then entries are scored and ranked by points", func() {
				So(board.ResultsAvailable, ShouldBeTrue)
				So(board.Entries, ShouldHaveLength, 3)
				So(board.Entries[0].UserID, ShouldEqual, "perfect")
				So(*board.Entries[0].Points, ShouldEqual, 50)
				So(board.Entries[1].UserID, ShouldEqual, "mid")
				// outcome 5 + minute 5 + scorer 10 + corners 5 + possession 0
				So(*board.Entries[1].Points, ShouldEqual, 25)
				So(board.Entries[2].UserID, ShouldEqual, "weak")
				So(*board.Entries[2].Points, ShouldEqual, 0)
			})

			Convey("And points equal the breakdown total", func() {
				for _, e := range board.Entries {
					So(e.Breakdown, ShouldNotBeNil)
					So(*e.Points, ShouldEqual, e.Breakdown.Total)
				}
			})
		})
	})

	Convey("Given a goalless 0-0 result", t, func() {
		goalless := model.ActualResult{HomeScore: 0, AwayScore: 0, FirstGoalMinute: 1, FirstScorerID: 0, Corners: 0, Possession: 50}
		preds := []model.Prediction{pred("u", model.MatchFacts{HomeScore: 0, AwayScore: 0, FirstGoalMinute: 1, Possession: 50})}

		Convey("Then it is scored like any other result", func() {
			board := leaderboard.Build(preds, goalless, true)
			So(board.ResultsAvailable, ShouldBeTrue)
			So(board.Entries[0].Points, ShouldNotBeNil)
			So(*board.Entries[0].Points, ShouldEqual, 50)
		})
	})
}

func TestBuild_StableTies(t *testing.T) {
	Convey("Given many predictions with colliding totals", t, func() {
		rng := rand.New(rand.NewSource(3))
		preds := make([]model.Prediction, 200)
		for i := range preds {
			preds[i] = pred(string(rune('A'+i%26))+string(rune('0'+i/26)), model.MatchFacts{
				HomeScore:       rng.Intn(4),
				AwayScore:       rng.Intn(4),
				FirstGoalMinute: 25 + rng.Intn(10),
				FirstScorerID:   8 + rng.Intn(3),
				Corners:         4 + rng.Intn(5),
				Possession:      48 + rng.Intn(8),
			})
		}
		position := make(map[string]int, len(preds))
		for i, p := range preds {
			position[p.UserID] = i
		}

		Convey("When building the board", func() {
			board := leaderboard.Build(preds, actual, true)

			Convey("Then points never increase and ties keep input order", func() {
				So(board.Entries, ShouldHaveLength, len(preds))
				for i := 1; i < len(board.Entries); i++ {
					prev, cur := board.Entries[i-1], board.Entries[i]
					So(*prev.Points, ShouldBeGreaterThanOrEqualTo, *cur.Points)
					if *prev.Points == *cur.Points {
						So(position[prev.UserID], ShouldBeLessThan, position[cur.UserID])
					}
				}
			})

			Convey("And the input slice is left untouched", func() {
				So(preds[0].UserID, ShouldEqual, "A0")
			})
		})
	})
}

func TestBuild_Empty(t *testing.T) {
	Convey("Given no predictions", t, func() {
		Convey("Then the board is empty but not nil, with or without a result", func() {
			for _, present := range []bool{false, true} {
				board := leaderboard.Build(nil, actual, present)
				So(board.Entries, ShouldNotBeNil)
				So(board.Entries, ShouldBeEmpty)
				So(board.ResultsAvailable, ShouldEqual, present)
			}
		})
	})
}

type fakePredictions struct {
	preds []model.Prediction
	err   error
}

func (f *fakePredictions) All(context.Context) ([]model.Prediction, error) {
	return f.preds, f.err
}

type fakeResult struct {
	result  model.ActualResult
	present bool
	err     error
}

func (f *fakeResult) Get(context.Context) (model.ActualResult, bool, error) {
	return f.result, f.present, f.err
}

func TestBuilder_Compute(t *testing.T) {
	Convey("Given a builder over in-memory fakes", t, func() {
		ctx := context.Background()
		preds := &fakePredictions{preds: []model.Prediction{pred("x", actual), pred("y", model.MatchFacts{})}}
		results := &fakeResult{}
		b := leaderboard.NewBuilder(preds, results)

		Convey("When no result is recorded", func() {
			board, err := b.Compute(ctx)
			So(err, ShouldBeNil)
			So(board.ResultsAvailable, ShouldBeFalse)
			So(board.Entries[0].Points, ShouldBeNil)
		})

		Convey("When the result is recorded later", func() {
			results.result, results.present = actual, true
			board, err := b.Compute(ctx)

			Convey("Then the next computation reflects it immediately", func() {
				So(err, ShouldBeNil)
				So(board.ResultsAvailable, ShouldBeTrue)
				So(*board.Entries[0].Points, ShouldEqual, 50)
			})
		})

		Convey("When the prediction read fails", func() {
			preds.err = errors.New("disk gone")
			_, err := b.Compute(ctx)
			So(errors.Is(err, leaderboard.ErrReadPredictions), ShouldBeTrue)
		})

		Convey("When the result read fails", func() {
			results.err = errors.New("timeout")
			_, err := b.Compute(ctx)
			So(errors.Is(err, leaderboard.ErrReadResult), ShouldBeTrue)
		})
	})
}
