// Package simulation plays out friendly matches between squad members.
// Runs are deterministic for a given seed so a simulated fixture can be
// replayed. An unseeded run picks a fresh seed and reports it.
package simulation

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/rating"
)

var ErrNotEnoughPlayers = errors.New("at least two players are needed to simulate a match")

// Options tune a single simulated match. Zero values fall back to the
// defaults below; a zero Seed draws one from the clock.
type Options struct {
	Seed        int64   `json:"seed"`
	Minutes     int     `json:"minutes"`
	GoalRate    float64 `json:"goal_rate"`
	OwnGoalProb float64 `json:"own_goal_prob"`
	AssistProb  float64 `json:"assist_prob"`
	PlayedAt    int64   `json:"played_at"`
}

const (
	defaultMinutes     = 90
	defaultGoalRate    = 1.4
	defaultOwnGoalProb = 0.05
	defaultAssistProb  = 0.7
	maxSaves           = 7
)

func (o Options) withDefaults() Options {
	if o.Minutes <= 0 {
		o.Minutes = defaultMinutes
	}
	if o.GoalRate <= 0 {
		o.GoalRate = defaultGoalRate
	}
	if o.OwnGoalProb <= 0 {
		o.OwnGoalProb = defaultOwnGoalProb
	}
	if o.AssistProb <= 0 {
		o.AssistProb = defaultAssistProb
	}
	return o
}

// Result is a finished simulated match together with its player ratings.
type Result struct {
	Match   *football.Match       `json:"match"`
	Ratings []rating.PlayerRating `json:"ratings"`
	// Seed replays this match when passed back in Options.
	Seed int64 `json:"seed"`
}

// Simulator produces completed matches from a squad.
type Simulator struct {
	policy  rating.Policy
	newID   func() string
	newSeed func() int64
}

func New(policy rating.Policy) *Simulator {
	return &Simulator{
		policy:  policy,
		newID:   uuid.NewString,
		newSeed: func() int64 { return time.Now().UnixNano() },
	}
}

// BalanceTeams splits players into two sides by snake draft over their
// rating: A, B, B, A, A, B, ... Ties are broken by id.
func BalanceTeams(players []football.Player) (teamA, teamB []football.Player) {
	ordered := make([]football.Player, len(players))
	copy(ordered, players)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Rating != ordered[j].Rating {
			return ordered[i].Rating > ordered[j].Rating
		}
		return ordered[i].ID < ordered[j].ID
	})
	for i, p := range ordered {
		if i%4 == 0 || i%4 == 3 {
			teamA = append(teamA, p)
		} else {
			teamB = append(teamB, p)
		}
	}
	return teamA, teamB
}

// Simulate balances the squad and plays a match minute by minute.
func (s *Simulator) Simulate(players []football.Player, opts Options) (*Result, error) {
	if len(players) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	opts = opts.withDefaults()
	if opts.PlayedAt == 0 {
		opts.PlayedAt = time.Now().Unix()
	}
	if opts.Seed == 0 {
		opts.Seed = s.newSeed()
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	teamA, teamB := BalanceTeams(players)
	match := &football.Match{
		ID:               s.newID(),
		TeamA:            ids(teamA),
		TeamB:            ids(teamB),
		Saves:            make(map[string]int),
		Completed:        true,
		ProcessingStatus: football.StatusNew,
		PlayedAt:         opts.PlayedAt,
	}

	strengthA, strengthB := strength(teamA), strength(teamB)
	total := strengthA + strengthB
	perMinute := map[football.TeamLabel]float64{
		football.TeamA: opts.GoalRate / float64(opts.Minutes) * 2 * strengthA / total,
		football.TeamB: opts.GoalRate / float64(opts.Minutes) * 2 * strengthB / total,
	}
	sides := map[football.TeamLabel][]football.Player{
		football.TeamA: teamA,
		football.TeamB: teamB,
	}

	for minute := 1; minute <= opts.Minutes; minute++ {
		for _, attacking := range []football.TeamLabel{football.TeamA, football.TeamB} {
			if rng.Float64() >= perMinute[attacking] {
				continue
			}
			goal := football.Goal{
				ID:     fmt.Sprintf("%s-g%d", match.ID, len(match.Goals)+1),
				Minute: minute,
			}
			if rng.Float64() < opts.OwnGoalProb {
				defending := attacking.Opponent()
				goal.ScorerID = pick(rng, sides[defending], ownGoalWeight, "").ID
				goal.Team = defending
				goal.OwnGoal = true
			} else {
				scorer := pick(rng, sides[attacking], scoringWeight, "")
				goal.ScorerID = scorer.ID
				goal.Team = attacking
				if len(sides[attacking]) > 1 && rng.Float64() < opts.AssistProb {
					goal.AssisterID = pick(rng, sides[attacking], assistWeight, scorer.ID).ID
				}
			}
			match.Goals = append(match.Goals, goal)
		}
	}
	match.ScoreA, match.ScoreB = rating.EffectiveScore(match.Goals)

	for _, side := range [][]football.Player{teamA, teamB} {
		if keeper, ok := firstKeeper(side); ok {
			match.Saves[keeper.ID] = rng.Intn(maxSaves + 1)
		}
	}

	lookup := make(map[string]football.Player, len(players))
	for _, p := range players {
		lookup[p.ID] = p
	}
	result := &Result{
		Match:   match,
		Ratings: s.policy.RateMatch(match, lookup),
		Seed:    opts.Seed,
	}
	log.Debug("Simulated match", "matchID", match.ID, "seed", opts.Seed, "scoreA", match.ScoreA, "scoreB", match.ScoreB, "goals", len(match.Goals))
	return result, nil
}

func ids(players []football.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

func strength(players []football.Player) float64 {
	if len(players) == 0 {
		return 1
	}
	sum := 0
	for _, p := range players {
		sum += p.Rating
	}
	avg := float64(sum) / float64(len(players))
	if avg < 1 {
		return 1
	}
	return avg
}

func firstKeeper(players []football.Player) (football.Player, bool) {
	for _, p := range players {
		if p.Position == football.Goalkeeper {
			return p, true
		}
	}
	return football.Player{}, false
}

func scoringWeight(pos football.Position) float64 {
	switch pos {
	case football.Forward:
		return 4
	case football.Midfielder:
		return 2.5
	case football.Defender:
		return 1
	default:
		return 0.1
	}
}

func assistWeight(pos football.Position) float64 {
	switch pos {
	case football.Midfielder:
		return 3
	case football.Forward:
		return 2
	case football.Defender:
		return 1
	default:
		return 0.5
	}
}

func ownGoalWeight(pos football.Position) float64 {
	switch pos {
	case football.Defender:
		return 3
	case football.Goalkeeper:
		return 1
	default:
		return 0.5
	}
}

// pick draws a weighted player, skipping exclude.
func pick(rng *rand.Rand, players []football.Player, weight func(football.Position) float64, exclude string) football.Player {
	total := 0.0
	for _, p := range players {
		if p.ID != exclude {
			total += weight(p.Position)
		}
	}
	r := rng.Float64() * total
	var last football.Player
	for _, p := range players {
		if p.ID == exclude {
			continue
		}
		last = p
		r -= weight(p.Position)
		if r < 0 {
			return p
		}
	}
	return last
}
