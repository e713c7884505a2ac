package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/predictor/internal/adapters/repository"
	"github.com/okian/predictor/internal/domain/model"
)

func TestFileStores(t *testing.T) {
	Convey("Given a data directory", t, func() {
		ctx := context.Background()
		dir := filepath.Join(t.TempDir(), "nested", "data")

		preds, err := repository.NewFilePredictionStore(dir)
		So(err, ShouldBeNil)
		results, err := repository.NewFileResultStore(dir)
		So(err, ShouldBeNil)

		Convey("Then the directory is created", func() {
			info, err := os.Stat(dir)
			So(err, ShouldBeNil)
			So(info.IsDir(), ShouldBeTrue)
		})

		Convey("When predictions are written", func() {
			So(preds.Upsert(ctx, prediction("a", 1, 1)), ShouldBeNil)

			Convey("Then a second store over the same directory sees them", func() {
				other, err := repository.NewFilePredictionStore(dir)
				So(err, ShouldBeNil)
				all, err := other.All(ctx)
				So(err, ShouldBeNil)
				So(userIDs(all), ShouldResemble, []string{"a"})
			})

			Convey("Then the file is private to the owner", func() {
				info, err := os.Stat(filepath.Join(dir, repository.PredictionsFile))
				So(err, ShouldBeNil)
				So(info.Mode().Perm(), ShouldEqual, os.FileMode(0o600))
			})

			Convey("Then no temp files are left behind", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})
		})

		Convey("When the predictions file is corrupt", func() {
			So(os.WriteFile(filepath.Join(dir, repository.PredictionsFile), []byte("{not json"), 0o600), ShouldBeNil)

			Convey("Then reads fail with ErrCorrupt", func() {
				_, err := preds.All(ctx)
				So(errors.Is(err, repository.ErrCorrupt), ShouldBeTrue)
			})
		})

		Convey("When the predictions file is empty", func() {
			So(os.WriteFile(filepath.Join(dir, repository.PredictionsFile), nil, 0o600), ShouldBeNil)

			Convey("Then it reads as no predictions", func() {
				all, err := preds.All(ctx)
				So(err, ShouldBeNil)
				So(all, ShouldBeEmpty)
			})
		})

		Convey("When the results file holds null", func() {
			So(os.WriteFile(filepath.Join(dir, repository.ResultsFile), []byte("null\n"), 0o600), ShouldBeNil)

			Convey("Then no result is present", func() {
				_, ok, err := results.Get(ctx)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a result is edited into the file by hand", func() {
			raw := `{"homeScore":1,"awayScore":0,"firstGoalMinute":44,"firstScorerId":9,"corners":3,"possession":57}`
			So(os.WriteFile(filepath.Join(dir, repository.ResultsFile), []byte(raw), 0o600), ShouldBeNil)

			Convey("Then the next read picks it up", func() {
				r, ok, err := results.Get(ctx)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(r, ShouldResemble, model.ActualResult{
					HomeScore: 1, AwayScore: 0, FirstGoalMinute: 44, FirstScorerID: 9, Corners: 3, Possession: 57,
				})
			})
		})
	})
}
