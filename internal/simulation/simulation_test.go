package simulation

import (
	"fmt"
	"testing"
	"time"

	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func squad() []football.Player {
	positions := []football.Position{
		football.Goalkeeper, football.Goalkeeper,
		football.Defender, football.Defender, football.Defender, football.Defender,
		football.Midfielder, football.Midfielder, football.Midfielder, football.Midfielder,
		football.Forward, football.Forward,
	}
	players := make([]football.Player, len(positions))
	for i, pos := range positions {
		players[i] = football.Player{
			ID:       fmt.Sprintf("p%02d", i),
			Name:     fmt.Sprintf("Player %d", i),
			Position: pos,
			Rating:   40 + i*3,
		}
	}
	return players
}

func newSimulator() *Simulator {
	s := New(rating.DefaultPolicy())
	s.newID = func() string { return "sim-1" }
	return s
}

func TestBalanceTeams(t *testing.T) {
	Convey("Given a twelve player squad", t, func() {
		teamA, teamB := BalanceTeams(squad())

		Convey("Both sides get six players", func() {
			So(teamA, ShouldHaveLength, 6)
			So(teamB, ShouldHaveLength, 6)
		})

		Convey("The strongest player goes to team A and the next two to team B", func() {
			So(teamA[0].ID, ShouldEqual, "p11")
			So(teamB[0].ID, ShouldEqual, "p10")
			So(teamB[1].ID, ShouldEqual, "p09")
		})

		Convey("The rating totals stay close", func() {
			sum := func(ps []football.Player) int {
				total := 0
				for _, p := range ps {
					total += p.Rating
				}
				return total
			}
			diff := sum(teamA) - sum(teamB)
			So(diff, ShouldBeBetweenOrEqual, -6, 6)
		})
	})

	Convey("An odd squad gives team A the extra player", t, func() {
		teamA, teamB := BalanceTeams(squad()[:5])
		So(teamA, ShouldHaveLength, 3)
		So(teamB, ShouldHaveLength, 2)
	})
}

func TestSimulate(t *testing.T) {
	Convey("Given a simulator", t, func() {
		sim := newSimulator()

		Convey("Fewer than two players is rejected", func() {
			_, err := sim.Simulate(squad()[:1], Options{Seed: 1})
			So(err, ShouldEqual, ErrNotEnoughPlayers)
		})

		Convey("The same seed replays the same match", func() {
			first, err := sim.Simulate(squad(), Options{Seed: 42, PlayedAt: 1000})
			So(err, ShouldBeNil)
			second, err := sim.Simulate(squad(), Options{Seed: 42, PlayedAt: 1000})
			So(err, ShouldBeNil)
			So(second.Match, ShouldResemble, first.Match)
			So(second.Ratings, ShouldResemble, first.Ratings)
		})

		Convey("An unseeded run reports the seed it drew", func() {
			seeds := []int64{1001, 1002}
			sim.newSeed = func() int64 {
				next := seeds[0]
				seeds = seeds[1:]
				return next
			}
			first, err := sim.Simulate(squad(), Options{GoalRate: 3, PlayedAt: 1000})
			So(err, ShouldBeNil)
			second, err := sim.Simulate(squad(), Options{GoalRate: 3, PlayedAt: 1000})
			So(err, ShouldBeNil)

			So(first.Seed, ShouldEqual, 1001)
			So(second.Seed, ShouldEqual, 1002)

			Convey("And passing it back replays the match", func() {
				replay, err := sim.Simulate(squad(), Options{Seed: first.Seed, GoalRate: 3, PlayedAt: 1000})
				So(err, ShouldBeNil)
				So(replay.Seed, ShouldEqual, first.Seed)
				So(replay.Match, ShouldResemble, first.Match)
				So(replay.Ratings, ShouldResemble, first.Ratings)
			})
		})

		Convey("Unseeded runs with the default seed source differ", func() {
			sim := New(rating.DefaultPolicy())
			sim.newID = func() string { return "sim-1" }
			var seeds []int64
			for i := 0; i < 5; i++ {
				res, err := sim.Simulate(squad(), Options{PlayedAt: 1000})
				So(err, ShouldBeNil)
				So(res.Seed, ShouldNotEqual, 0)
				seeds = append(seeds, res.Seed)
				time.Sleep(time.Millisecond)
			}
			So(seeds[0], ShouldNotEqual, seeds[len(seeds)-1])
		})

		Convey("The score always matches the goal events", func() {
			for seed := int64(0); seed < 25; seed++ {
				res, err := sim.Simulate(squad(), Options{Seed: seed, GoalRate: 3})
				So(err, ShouldBeNil)
				a, b := rating.EffectiveScore(res.Match.Goals)
				So(res.Match.ScoreA, ShouldEqual, a)
				So(res.Match.ScoreB, ShouldEqual, b)
				So(res.Match.Completed, ShouldBeTrue)
			}
		})

		Convey("Every player is rated within the match clamp", func() {
			res, err := sim.Simulate(squad(), Options{Seed: 7})
			So(err, ShouldBeNil)
			So(res.Ratings, ShouldHaveLength, 12)
			for _, r := range res.Ratings {
				So(r.Rating, ShouldBeBetweenOrEqual, 1.0, 10.0)
			}
		})

		Convey("Each goalkeeper gets a save count", func() {
			res, err := sim.Simulate(squad(), Options{Seed: 3})
			So(err, ShouldBeNil)
			So(res.Match.Saves, ShouldContainKey, "p00")
			So(res.Match.Saves, ShouldContainKey, "p01")
		})

		Convey("With a certain own goal every goal is credited to the other side", func() {
			res, err := sim.Simulate(squad(), Options{Seed: 11, GoalRate: 4, OwnGoalProb: 1})
			So(err, ShouldBeNil)
			So(len(res.Match.Goals), ShouldBeGreaterThan, 0)
			for _, g := range res.Match.Goals {
				So(g.OwnGoal, ShouldBeTrue)
				So(g.AssisterID, ShouldBeEmpty)
				team, ok := res.Match.TeamOf(g.ScorerID)
				So(ok, ShouldBeTrue)
				So(team, ShouldEqual, g.Team)
			}
		})

		Convey("Assisters are never the scorer", func() {
			res, err := sim.Simulate(squad(), Options{Seed: 5, GoalRate: 5, AssistProb: 1})
			So(err, ShouldBeNil)
			for _, g := range res.Match.Goals {
				if !g.OwnGoal {
					So(g.AssisterID, ShouldNotEqual, g.ScorerID)
					So(g.AssisterID, ShouldNotBeEmpty)
				}
			}
		})
	})
}
