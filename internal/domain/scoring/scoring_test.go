package scoring_test

import (
	"math/rand"
	"testing"

	"github.com/okian/predictor/internal/domain/model"
	scoring "github.com/okian/predictor/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func baseFacts() model.MatchFacts {
	return model.MatchFacts{
		HomeScore:       2,
		AwayScore:       0,
		FirstGoalMinute: 25,
		FirstScorerID:   7,
		Corners:         8,
		Possession:      55,
	}
}

func TestClassify(t *testing.T) {
	Convey("Given scorelines", t, func() {
		So(scoring.Classify(3, 1), ShouldEqual, scoring.Win)
		So(scoring.Classify(0, 0), ShouldEqual, scoring.Draw)
		So(scoring.Classify(2, 2), ShouldEqual, scoring.Draw)
		So(scoring.Classify(0, 4), ShouldEqual, scoring.Loss)

		Convey("Then the labels render as W/D/L", func() {
			So(scoring.Win.String(), ShouldEqual, "W")
			So(scoring.Draw.String(), ShouldEqual, "D")
			So(scoring.Loss.String(), ShouldEqual, "L")
		})
	})
}

func TestScore_PerfectPrediction(t *testing.T) {
	Convey("Given a prediction identical to the result", t, func() {
		p := baseFacts()
		a := baseFacts()

		Convey("When scoring", func() {
			b := scoring.Score(p, a)

			Convey("Then every category hits its maximum", func() {
				So(b, ShouldResemble, scoring.PointsBreakdown{
					ScorePoints:       10,
					FirstGoalPoints:   10,
					FirstScorerPoints: 10,
					CornersPoints:     10,
					PossessionPoints:  10,
					Total:             50,
				})
				So(b.Total, ShouldEqual, scoring.MaxTotal)
			})
		})
	})
}

func TestScore_FinalScore(t *testing.T) {
	Convey("Given a predicted 1-0 home win", t, func() {
		p := baseFacts()
		p.HomeScore, p.AwayScore = 1, 0
		a := baseFacts()

		Convey("When the actual result is a 3-1 home win", func() {
			a.HomeScore, a.AwayScore = 3, 1
			Convey("Then the outcome match earns 5", func() {
				So(scoring.Score(p, a).ScorePoints, ShouldEqual, 5)
			})
		})

		Convey("When the actual result is 1-0", func() {
			a.HomeScore, a.AwayScore = 1, 0
			Convey("Then the exact match earns 10", func() {
				So(scoring.Score(p, a).ScorePoints, ShouldEqual, 10)
			})
		})

		Convey("When the actual result is a 1-1 draw", func() {
			a.HomeScore, a.AwayScore = 1, 1
			Convey("Then the wrong outcome earns 0", func() {
				So(scoring.Score(p, a).ScorePoints, ShouldEqual, 0)
			})
		})

		Convey("When the actual result is an away win", func() {
			a.HomeScore, a.AwayScore = 0, 2
			Convey("Then it earns 0", func() {
				So(scoring.Score(p, a).ScorePoints, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a predicted 1-1 draw and an actual 0-0 draw", t, func() {
		p := baseFacts()
		p.HomeScore, p.AwayScore = 1, 1
		a := baseFacts()
		a.HomeScore, a.AwayScore = 0, 0

		Convey("Then the draw outcome earns 5", func() {
			So(scoring.Score(p, a).ScorePoints, ShouldEqual, 5)
		})
	})
}

func TestScore_FirstGoalMinute(t *testing.T) {
	Convey("Given a predicted first goal at minute 20", t, func() {
		p := baseFacts()
		p.FirstGoalMinute = 20
		a := baseFacts()

		cases := []struct {
			actual int
			points int
		}{
			{20, 10},
			{23, 5},
			{17, 5},
			{24, 3},
			{25, 3},
			{15, 3},
			{26, 0},
			{14, 0},
			{90, 0},
		}
		for _, c := range cases {
			a.FirstGoalMinute = c.actual
			So(scoring.Score(p, a).FirstGoalPoints, ShouldEqual, c.points)
		}
	})
}

func TestScore_FirstScorer(t *testing.T) {
	Convey("Given a predicted first scorer", t, func() {
		p := baseFacts()
		a := baseFacts()

		Convey("When the id matches", func() {
			So(scoring.Score(p, a).FirstScorerPoints, ShouldEqual, 10)
		})

		Convey("When the id differs, even by one", func() {
			a.FirstScorerID = p.FirstScorerID + 1
			So(scoring.Score(p, a).FirstScorerPoints, ShouldEqual, 0)
		})
	})
}

func TestScore_Corners(t *testing.T) {
	Convey("Given 8 predicted corners", t, func() {
		p := baseFacts()
		p.Corners = 8
		a := baseFacts()

		for actual, points := range map[int]int{8: 10, 9: 5, 7: 5, 10: 3, 6: 3, 11: 0, 5: 0} {
			a.Corners = actual
			So(scoring.Score(p, a).CornersPoints, ShouldEqual, points)
		}
	})
}

func TestScore_Possession(t *testing.T) {
	Convey("Given 55% predicted home possession", t, func() {
		p := baseFacts()
		p.Possession = 55
		a := baseFacts()

		for actual, points := range map[int]int{55: 10, 57: 5, 53: 5, 58: 3, 52: 3, 59: 0, 51: 0} {
			a.Possession = actual
			So(scoring.Score(p, a).PossessionPoints, ShouldEqual, points)
		}
	})
}

func TestScore_Properties(t *testing.T) {
	Convey("Given random integer predictions and results", t, func() {
		rng := rand.New(rand.NewSource(7))
		random := func() model.MatchFacts {
			return model.MatchFacts{
				HomeScore:       rng.Intn(6),
				AwayScore:       rng.Intn(6),
				FirstGoalMinute: 1 + rng.Intn(90),
				FirstScorerID:   rng.Intn(12),
				Corners:         rng.Intn(16),
				Possession:      30 + rng.Intn(41),
			}
		}

		allowedScore := map[int]bool{0: true, 5: true, 10: true}
		allowedBand := map[int]bool{0: true, 3: true, 5: true, 10: true}

		Convey("Then every breakdown stays inside its discrete sets and sums to the total", func() {
			for i := 0; i < 5000; i++ {
				p, a := random(), random()
				b := scoring.Score(p, a)

				So(allowedScore[b.ScorePoints], ShouldBeTrue)
				So(allowedBand[b.FirstGoalPoints], ShouldBeTrue)
				So(allowedBand[b.CornersPoints], ShouldBeTrue)
				So(allowedBand[b.PossessionPoints], ShouldBeTrue)
				So(b.FirstScorerPoints == 0 || b.FirstScorerPoints == 10, ShouldBeTrue)
				So(b.Total, ShouldEqual, b.ScorePoints+b.FirstGoalPoints+b.FirstScorerPoints+b.CornersPoints+b.PossessionPoints)
				So(b.Total, ShouldBeBetweenOrEqual, 0, scoring.MaxTotal)
				So(scoring.Score(p, a), ShouldResemble, b)
			}
		})

		Convey("Then the difference is symmetric", func() {
			for i := 0; i < 1000; i++ {
				p, a := random(), random()
				So(scoring.Score(p, a), ShouldResemble, scoring.Score(a, p))
			}
		})
	})
}

func TestScore_OutOfRangeInput(t *testing.T) {
	Convey("Given values outside their declared ranges", t, func() {
		p := model.MatchFacts{HomeScore: -3, AwayScore: 200, FirstGoalMinute: 500, Possession: 140, Corners: -1}
		a := baseFacts()

		Convey("Then scoring still returns a bounded breakdown without rejecting it", func() {
			b := scoring.Score(p, a)
			So(b.Total, ShouldBeBetweenOrEqual, 0, scoring.MaxTotal)
			So(b.FirstGoalPoints, ShouldEqual, 0)
		})
	})
}
