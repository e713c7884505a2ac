package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/predictor/internal/adapters/repository"
	service "github.com/okian/predictor/internal/app"
	"github.com/okian/predictor/internal/domain/model"
	"github.com/okian/predictor/internal/domain/scoring"
)

func TestServiceIntegration(t *testing.T) {
	mr := miniredis.RunT(t)
	storages := map[string]func() repository.Options{
		repository.BackendFile: func() repository.Options {
			return repository.Options{Backend: repository.BackendFile, DataDir: t.TempDir()}
		},
		repository.BackendRedis: func() repository.Options {
			mr.FlushAll()
			return repository.Options{Backend: repository.BackendRedis, RedisAddr: mr.Addr(), RedisKeyPrefix: "it"}
		},
	}

	for name, storage := range storages {
		Convey("Given a service on the "+name+" backend", t, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			svc := service.New(service.WithStorage(storage()))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("When many participants submit concurrently", func() {
				const participants = 40
				var wg sync.WaitGroup
				errs := make(chan error, participants*2)
				for i := 0; i < participants; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						id := fmt.Sprintf("user-%02d", i)
						p := model.Prediction{UserID: id, Username: id, MatchFacts: model.MatchFacts{
							HomeScore: i % 4, AwayScore: i % 3, FirstGoalMinute: 1 + i, FirstScorerID: i % 11, Corners: i % 12, Possession: 35 + i,
						}}
						if _, err := svc.SubmitPrediction(ctx, p); err != nil {
							errs <- err
						}
						// resubmission must not duplicate the entry
						if _, err := svc.SubmitPrediction(ctx, p); err != nil {
							errs <- err
						}
					}(i)
				}
				wg.Wait()
				close(errs)
				for err := range errs {
					So(err, ShouldBeNil)
				}

				Convey("Then each participant appears exactly once", func() {
					board, err := svc.Leaderboard(ctx)
					So(err, ShouldBeNil)
					So(board.Entries, ShouldHaveLength, participants)
					seen := map[string]bool{}
					for _, e := range board.Entries {
						So(seen[e.UserID], ShouldBeFalse)
						seen[e.UserID] = true
					}
				})

				Convey("And recording the result ranks everybody consistently", func() {
					actual := model.ActualResult{HomeScore: 2, AwayScore: 1, FirstGoalMinute: 20, FirstScorerID: 9, Corners: 9, Possession: 55}
					So(svc.RecordResult(ctx, actual), ShouldBeNil)

					board, err := svc.Leaderboard(ctx)
					So(err, ShouldBeNil)
					So(board.ResultsAvailable, ShouldBeTrue)
					for i, e := range board.Entries {
						p, ok, err := svc.Prediction(ctx, e.UserID)
						So(err, ShouldBeNil)
						So(ok, ShouldBeTrue)
						So(*e.Breakdown, ShouldResemble, scoring.Score(p.MatchFacts, actual))
						if i > 0 {
							So(*board.Entries[i-1].Points, ShouldBeGreaterThanOrEqualTo, *e.Points)
						}
					}
				})
			})

			Convey("When the service restarts on the same storage", func() {
				_, err := svc.SubmitPrediction(ctx, model.Prediction{UserID: "keep", Username: "keep", MatchFacts: model.MatchFacts{FirstGoalMinute: 5}})
				So(err, ShouldBeNil)
				So(svc.RecordResult(ctx, model.ActualResult{}), ShouldBeNil)
				svc.Stop()
				So(svc.Start(ctx), ShouldBeNil)

				Convey("Then predictions and the result survive", func() {
					_, ok, err := svc.Prediction(ctx, "keep")
					So(err, ShouldBeNil)
					So(ok, ShouldBeTrue)

					_, present, err := svc.Result(ctx)
					So(err, ShouldBeNil)
					So(present, ShouldBeTrue)
				})
			})
		})
	}
}
