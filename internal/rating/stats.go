package rating

import "github.com/mauv0809/touchline/internal/football"

// Delta is what one completed match adds to a player's cumulative counters.
type Delta struct {
	Goals      int  `json:"goals"`
	Assists    int  `json:"assists"`
	Saves      int  `json:"saves"`
	CleanSheet bool `json:"clean_sheet"`
}

// DeltaFor derives the counter delta for a player from their performance.
// A clean sheet only counts for defenders and goalkeepers.
func DeltaFor(pos football.Position, perf Performance) Delta {
	return Delta{
		Goals:      perf.Goals,
		Assists:    perf.Assists,
		Saves:      perf.Saves,
		CleanSheet: perf.CleanSheet && pos.DefendsGoal(),
	}
}

// Apply folds a match into a player record. The overall rating only moves
// when the throttle fires.
func (p Policy) Apply(player football.Player, d Delta, matchRating float64) football.Player {
	player.MatchesPlayed++
	player.TotalGoals += d.Goals
	player.TotalAssists += d.Assists
	player.TotalSaves += d.Saves
	if d.CleanSheet {
		player.CleanSheets++
	}
	if p.ShouldRecalculate(player.MatchesPlayed, matchRating) {
		player.Rating = p.AdjustOverall(player.Rating, matchRating)
	}
	return player
}

// Reverse takes a match back out of a player record, flooring every counter
// at zero. The overall rating is left as it is.
func (p Policy) Reverse(player football.Player, d Delta) football.Player {
	player.MatchesPlayed = floor(player.MatchesPlayed - 1)
	player.TotalGoals = floor(player.TotalGoals - d.Goals)
	player.TotalAssists = floor(player.TotalAssists - d.Assists)
	player.TotalSaves = floor(player.TotalSaves - d.Saves)
	if d.CleanSheet {
		player.CleanSheets = floor(player.CleanSheets - 1)
	}
	return player
}

// Fold is the outcome of rating one participant of a match.
type Fold struct {
	Before football.Player
	After  football.Player
	Delta  Delta
	Rating float64
}

// ApplyMatch folds a completed match into every participant's record.
// It fails on the first participant missing from players, leaving nothing
// half-applied for the caller to persist.
func (p Policy) ApplyMatch(match *football.Match, players map[string]football.Player) ([]Fold, error) {
	return p.foldMatch(match, players, nil, true)
}

// ReverseMatch is the inverse of ApplyMatch for the counters. Each
// participant's delta is taken from applied, the Fold.Delta recorded when the
// match was applied, so a later position change cannot skew the reversal.
// Participants missing from applied get their delta derived again.
func (p Policy) ReverseMatch(match *football.Match, players map[string]football.Player, applied map[string]Delta) ([]Fold, error) {
	return p.foldMatch(match, players, applied, false)
}

func (p Policy) foldMatch(match *football.Match, players map[string]football.Player, applied map[string]Delta, apply bool) ([]Fold, error) {
	folds := make([]Fold, 0, len(match.TeamA)+len(match.TeamB))
	for _, id := range match.Participants() {
		player, ok := players[id]
		if !ok {
			return nil, &UnknownPlayerError{PlayerID: id, MatchID: match.ID}
		}
		perf, err := PerformanceFor(match, id)
		if err != nil {
			return nil, err
		}
		d, ok := applied[id]
		if !ok {
			d = DeltaFor(player.Position, perf)
		}
		r := p.Rate(player.Position, perf)
		f := Fold{Before: player, Delta: d, Rating: r}
		if apply {
			f.After = p.Apply(player, d, r)
		} else {
			f.After = p.Reverse(player, d)
		}
		folds = append(folds, f)
	}
	return folds, nil
}

// UnknownPlayerError reports a rostered player with no stored record.
type UnknownPlayerError struct {
	PlayerID string
	MatchID  string
}

func (e *UnknownPlayerError) Error() string {
	return "no player record for " + e.PlayerID + " in match " + e.MatchID
}

func floor(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
