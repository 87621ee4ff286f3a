package rating_test

import (
	"testing"

	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPolicy_Rate(t *testing.T) {
	Convey("Given the default rating policy", t, func() {
		policy := rating.DefaultPolicy()

		Convey("When a midfielder does nothing in a draw", func() {
			r := policy.Rate(football.Midfielder, rating.Performance{})

			Convey("Then only the zero-assist penalty applies", func() {
				So(r, ShouldAlmostEqual, 5.9, 1e-9)
			})
		})

		Convey("When a goalkeeper keeps a clean sheet with six saves in a win", func() {
			r := policy.Rate(football.Goalkeeper, rating.Performance{
				Saves:      6,
				CleanSheet: true,
				TeamWon:    true,
			})

			Convey("Then saves, clean sheet, win and save bonus all count", func() {
				So(r, ShouldAlmostEqual, 8.6, 1e-9)
			})
		})

		Convey("When a goalkeeper makes exactly five saves", func() {
			r := policy.Rate(football.Goalkeeper, rating.Performance{Saves: 5})

			Convey("Then the save bonus does not apply", func() {
				So(r, ShouldAlmostEqual, 6.5, 1e-9)
			})
		})

		Convey("When a forward scores once in a draw", func() {
			r := policy.Rate(football.Forward, rating.Performance{Goals: 1})

			Convey("Then there is no zero-goal penalty", func() {
				So(r, ShouldAlmostEqual, 7.5, 1e-9)
			})
		})

		Convey("When a forward does not score in a loss", func() {
			r := policy.Rate(football.Forward, rating.Performance{TeamLost: true})

			Convey("Then the loss and zero-goal penalties stack", func() {
				So(r, ShouldAlmostEqual, 5.5, 1e-9)
			})
		})

		Convey("When a forward keeps a clean sheet", func() {
			r := policy.Rate(football.Forward, rating.Performance{Goals: 1, CleanSheet: true})

			Convey("Then the clean sheet bonus is ignored", func() {
				So(r, ShouldAlmostEqual, 7.5, 1e-9)
			})
		})

		Convey("When a defender keeps a clean sheet", func() {
			r := policy.Rate(football.Defender, rating.Performance{CleanSheet: true})

			Convey("Then the clean sheet bonus applies", func() {
				So(r, ShouldAlmostEqual, 7.0, 1e-9)
			})
		})

		Convey("When the counters are extreme", func() {
			high := policy.Rate(football.Forward, rating.Performance{Goals: 50, Assists: 20, TeamWon: true})
			low := rating.Policy{Base: 6, LossPenalty: 10, Min: 1, Max: 10}.Rate(football.Forward, rating.Performance{TeamLost: true})

			Convey("Then the rating stays within [1, 10]", func() {
				So(high, ShouldEqual, 10)
				So(low, ShouldEqual, 1)
			})
		})

		Convey("When every position is rated across a grid of inputs", func() {
			positions := []football.Position{football.Goalkeeper, football.Defender, football.Midfielder, football.Forward}

			Convey("Then no rating leaves the bounds", func() {
				for _, pos := range positions {
					for goals := 0; goals <= 60; goals += 15 {
						for saves := 0; saves <= 40; saves += 10 {
							r := policy.Rate(pos, rating.Performance{Goals: goals, Saves: saves, TeamLost: goals == 0})
							So(r, ShouldBeBetweenOrEqual, 1, 10)
						}
					}
				}
			})
		})
	})
}

func TestPolicy_OverallThrottle(t *testing.T) {
	Convey("Given the default rating policy", t, func() {
		policy := rating.DefaultPolicy()

		Convey("The overall rating is recalculated every fifth match", func() {
			So(policy.ShouldRecalculate(5, 6.0), ShouldBeTrue)
			So(policy.ShouldRecalculate(10, 6.5), ShouldBeTrue)
			So(policy.ShouldRecalculate(4, 7.9), ShouldBeFalse)
		})

		Convey("A deviation above two points triggers a recalculation", func() {
			So(policy.ShouldRecalculate(3, 8.1), ShouldBeTrue)
			So(policy.ShouldRecalculate(3, 3.9), ShouldBeTrue)
			So(policy.ShouldRecalculate(3, 8.0), ShouldBeFalse)
		})

		Convey("The adjustment doubles the deviation from the base", func() {
			So(policy.AdjustOverall(50, 8.5), ShouldEqual, 55)
			So(policy.AdjustOverall(50, 5.0), ShouldEqual, 48)
		})

		Convey("The overall rating is clamped to [1, 100]", func() {
			So(policy.AdjustOverall(99, 10), ShouldEqual, 100)
			So(policy.AdjustOverall(2, 1), ShouldEqual, 1)
		})
	})
}
