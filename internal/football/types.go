package football

import (
	"fmt"
	"strings"
)

// Position is one of the four fixed squad roles.
type Position string

const (
	Goalkeeper Position = "GK"
	Defender   Position = "DEF"
	Midfielder Position = "MID"
	Forward    Position = "FWD"
)

// ParsePosition accepts the short code or the full role name, case-insensitively.
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GK", "GOALKEEPER":
		return Goalkeeper, nil
	case "DEF", "DEFENDER":
		return Defender, nil
	case "MID", "MIDFIELDER":
		return Midfielder, nil
	case "FWD", "FORWARD":
		return Forward, nil
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// Valid reports whether p is one of the four known roles.
func (p Position) Valid() bool {
	switch p {
	case Goalkeeper, Defender, Midfielder, Forward:
		return true
	}
	return false
}

// DefendsGoal reports whether a clean sheet counts for this role.
func (p Position) DefendsGoal() bool {
	return p == Goalkeeper || p == Defender
}

// TeamLabel names one side of a match.
type TeamLabel string

const (
	TeamA TeamLabel = "A"
	TeamB TeamLabel = "B"
)

// Opponent returns the other side.
func (t TeamLabel) Opponent() TeamLabel {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// ProcessingStatus is where a match sits in the result pipeline.
type ProcessingStatus string

const (
	StatusNew             ProcessingStatus = "NEW"
	StatusResultAvailable ProcessingStatus = "RESULT_AVAILABLE"
	StatusResultNotified  ProcessingStatus = "RESULT_NOTIFIED"
	StatusStatsUpdated    ProcessingStatus = "STATS_UPDATED"
	StatusCompleted       ProcessingStatus = "COMPLETED"
)

// Player is a squad member together with the cumulative counters the stats
// fold maintains.
type Player struct {
	ID            string   `json:"id" msgpack:"id"`
	Name          string   `json:"name" msgpack:"name"`
	Position      Position `json:"position" msgpack:"position"`
	MatchesPlayed int      `json:"matches_played" msgpack:"matches_played"`
	TotalGoals    int      `json:"total_goals" msgpack:"total_goals"`
	TotalAssists  int      `json:"total_assists" msgpack:"total_assists"`
	TotalSaves    int      `json:"total_saves" msgpack:"total_saves"`
	CleanSheets   int      `json:"clean_sheets" msgpack:"clean_sheets"`
	Rating        int      `json:"rating" msgpack:"rating"`
}

// DefaultRating is the persisted 1-100 rating a new player starts from.
const DefaultRating = 50

// Goal is a single scoring event. Team is the scorer's side; an own goal
// counts for the opponent of Team while ScorerID still names the player who
// put the ball in their own net.
type Goal struct {
	ID         string    `json:"id" msgpack:"id"`
	ScorerID   string    `json:"scorer_id" msgpack:"scorer_id"`
	AssisterID string    `json:"assister_id,omitempty" msgpack:"assister_id"`
	Team       TeamLabel `json:"team" msgpack:"team"`
	OwnGoal    bool      `json:"own_goal" msgpack:"own_goal"`
	Minute     int       `json:"minute,omitempty" msgpack:"minute"`
}

// CreditedTo returns the side whose score the goal increments.
func (g Goal) CreditedTo() TeamLabel {
	if g.OwnGoal {
		return g.Team.Opponent()
	}
	return g.Team
}

// Match is either provisional (no score, no stats applied) or completed.
type Match struct {
	ID               string           `json:"id" msgpack:"id"`
	TeamA            []string         `json:"team_a" msgpack:"team_a"`
	TeamB            []string         `json:"team_b" msgpack:"team_b"`
	ScoreA           int              `json:"score_a" msgpack:"score_a"`
	ScoreB           int              `json:"score_b" msgpack:"score_b"`
	Goals            []Goal           `json:"goals" msgpack:"goals"`
	Saves            map[string]int   `json:"saves" msgpack:"saves"`
	Completed        bool             `json:"completed" msgpack:"completed"`
	StatsApplied     bool             `json:"stats_applied" msgpack:"stats_applied"`
	ProcessingStatus ProcessingStatus `json:"processing_status" msgpack:"processing_status"`
	PlayedAt         int64            `json:"played_at" msgpack:"played_at"`
	CreatedAt        int64            `json:"created_at" msgpack:"created_at"`
}

// TeamOf returns the side a player is rostered on.
func (m *Match) TeamOf(playerID string) (TeamLabel, bool) {
	for _, id := range m.TeamA {
		if id == playerID {
			return TeamA, true
		}
	}
	for _, id := range m.TeamB {
		if id == playerID {
			return TeamB, true
		}
	}
	return "", false
}

// Roster returns the player ids of one side.
func (m *Match) Roster(team TeamLabel) []string {
	if team == TeamA {
		return m.TeamA
	}
	return m.TeamB
}

// Participants returns every rostered player id, Team A first.
func (m *Match) Participants() []string {
	ids := make([]string, 0, len(m.TeamA)+len(m.TeamB))
	ids = append(ids, m.TeamA...)
	return append(ids, m.TeamB...)
}

// Score returns the goals for a side and the goals it conceded.
func (m *Match) Score(team TeamLabel) (scored, conceded int) {
	if team == TeamA {
		return m.ScoreA, m.ScoreB
	}
	return m.ScoreB, m.ScoreA
}
