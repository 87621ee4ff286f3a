// Package rating turns a player's match events into a bounded per-match
// rating and folds match deltas into cumulative player records. Every
// caller that needs a rating goes through a Policy so the weights live in
// exactly one place.
package rating

import (
	"math"

	"github.com/mauv0809/touchline/internal/football"
)

// Policy holds the weights and bounds of the rating formula and of the
// throttled overall-rating update.
type Policy struct {
	Base float64

	GoalWeight   float64
	AssistWeight float64
	SaveWeight   float64

	CleanSheetBonus float64
	WinBonus        float64
	LossPenalty     float64

	ForwardNoGoalPenalty      float64
	MidfielderNoAssistPenalty float64
	GoalkeeperSaveThreshold   int
	GoalkeeperSaveBonus       float64

	Min float64
	Max float64

	// Overall (persisted 1-100) rating update.
	OverallMin           int
	OverallMax           int
	RecalcEvery          int
	DeviationThreshold   float64
	AdjustmentMultiplier float64
}

// DefaultPolicy returns the weights the club has always rated matches with.
func DefaultPolicy() Policy {
	return Policy{
		Base:                      6.0,
		GoalWeight:                1.5,
		AssistWeight:              1.0,
		SaveWeight:                0.1,
		CleanSheetBonus:           1.0,
		WinBonus:                  0.5,
		LossPenalty:               0.3,
		ForwardNoGoalPenalty:      0.2,
		MidfielderNoAssistPenalty: 0.1,
		GoalkeeperSaveThreshold:   5,
		GoalkeeperSaveBonus:       0.5,
		Min:                       1,
		Max:                       10,
		OverallMin:                1,
		OverallMax:                100,
		RecalcEvery:               5,
		DeviationThreshold:        2.0,
		AdjustmentMultiplier:      2,
	}
}

// Performance is what one player did in one match.
type Performance struct {
	Goals      int  `json:"goals"`
	Assists    int  `json:"assists"`
	Saves      int  `json:"saves"`
	CleanSheet bool `json:"clean_sheet"`
	TeamWon    bool `json:"team_won"`
	TeamLost   bool `json:"team_lost"`
}

// Rate computes the per-match rating, always within [Min, Max].
func (p Policy) Rate(pos football.Position, perf Performance) float64 {
	r := p.Base
	r += float64(perf.Goals) * p.GoalWeight
	r += float64(perf.Assists) * p.AssistWeight
	r += float64(perf.Saves) * p.SaveWeight

	if perf.CleanSheet && pos.DefendsGoal() {
		r += p.CleanSheetBonus
	}

	if perf.TeamWon {
		r += p.WinBonus
	} else if perf.TeamLost {
		r -= p.LossPenalty
	}

	switch pos {
	case football.Forward:
		if perf.Goals == 0 {
			r -= p.ForwardNoGoalPenalty
		}
	case football.Midfielder:
		if perf.Assists == 0 {
			r -= p.MidfielderNoAssistPenalty
		}
	case football.Goalkeeper:
		if perf.Saves > p.GoalkeeperSaveThreshold {
			r += p.GoalkeeperSaveBonus
		}
	}

	return clamp(r, p.Min, p.Max)
}

// Rate rates a performance with the default policy.
func Rate(pos football.Position, perf Performance) float64 {
	return DefaultPolicy().Rate(pos, perf)
}

// ShouldRecalculate reports whether the overall rating moves after a match.
// matchesPlayed is the count including that match.
func (p Policy) ShouldRecalculate(matchesPlayed int, matchRating float64) bool {
	if p.RecalcEvery > 0 && matchesPlayed > 0 && matchesPlayed%p.RecalcEvery == 0 {
		return true
	}
	return math.Abs(matchRating-p.Base) > p.DeviationThreshold
}

// AdjustOverall returns the overall rating after a match with the given
// per-match rating. It does not check the throttle.
func (p Policy) AdjustOverall(current int, matchRating float64) int {
	next := math.Round(float64(current) + (matchRating-p.Base)*p.AdjustmentMultiplier)
	return int(clamp(next, float64(p.OverallMin), float64(p.OverallMax)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
