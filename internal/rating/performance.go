package rating

import (
	"errors"
	"fmt"

	"github.com/mauv0809/touchline/internal/football"
)

// ErrPlayerNotInMatch is returned when a performance is requested for a
// player on neither roster.
var ErrPlayerNotInMatch = errors.New("player is not in match roster")

// EffectiveScore derives the score pair from goal events; an own goal counts
// for the scorer's opponent.
func EffectiveScore(goals []football.Goal) (scoreA, scoreB int) {
	for _, g := range goals {
		if g.CreditedTo() == football.TeamA {
			scoreA++
		} else {
			scoreB++
		}
	}
	return scoreA, scoreB
}

// PerformanceFor derives one player's performance from a completed match.
//
// Own goals never count towards the scorer's goals. An assist attached to an
// own goal is still credited to the assister.
func PerformanceFor(match *football.Match, playerID string) (Performance, error) {
	team, ok := match.TeamOf(playerID)
	if !ok {
		return Performance{}, fmt.Errorf("%w: player %s, match %s", ErrPlayerNotInMatch, playerID, match.ID)
	}

	var perf Performance
	for _, g := range match.Goals {
		if g.ScorerID == playerID && !g.OwnGoal {
			perf.Goals++
		}
		if g.AssisterID != "" && g.AssisterID == playerID {
			perf.Assists++
		}
	}
	perf.Saves = match.Saves[playerID]

	scored, conceded := match.Score(team)
	perf.CleanSheet = conceded == 0
	perf.TeamWon = scored > conceded
	perf.TeamLost = scored < conceded
	return perf, nil
}

// PlayerRating is a rated performance for one player in one match.
type PlayerRating struct {
	PlayerID    string             `json:"player_id"`
	Name        string             `json:"name,omitempty"`
	Position    football.Position  `json:"position"`
	Team        football.TeamLabel `json:"team"`
	Performance Performance        `json:"performance"`
	Rating      float64            `json:"rating"`
}

// RateMatch rates every rostered player whose record is known. Players
// missing from the lookup are skipped.
func (p Policy) RateMatch(match *football.Match, players map[string]football.Player) []PlayerRating {
	ratings := make([]PlayerRating, 0, len(match.TeamA)+len(match.TeamB))
	for _, id := range match.Participants() {
		player, ok := players[id]
		if !ok {
			continue
		}
		perf, err := PerformanceFor(match, id)
		if err != nil {
			continue
		}
		team, _ := match.TeamOf(id)
		ratings = append(ratings, PlayerRating{
			PlayerID:    id,
			Name:        player.Name,
			Position:    player.Position,
			Team:        team,
			Performance: perf,
			Rating:      p.Rate(player.Position, perf),
		})
	}
	return ratings
}

// Best returns the highest rated entry, first one wins on ties.
func Best(ratings []PlayerRating) (PlayerRating, bool) {
	if len(ratings) == 0 {
		return PlayerRating{}, false
	}
	best := ratings[0]
	for _, r := range ratings[1:] {
		if r.Rating > best.Rating {
			best = r
		}
	}
	return best, true
}
