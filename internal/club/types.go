package club

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/rating"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("match already completed")
	ErrNotCompleted     = errors.New("match not completed")
	ErrInvalidMatch     = errors.New("invalid match")
	ErrInvalidPlayer    = errors.New("invalid player")
)

// store handles all database operations for the club.
type store struct {
	db     *sql.DB
	mu     sync.RWMutex
	policy rating.Policy
}

// PlayerStats represents a player's statistics for the leaderboard.
type PlayerStats struct {
	PlayerID      string            `json:"player_id"`
	PlayerName    string            `json:"player_name"`
	Position      football.Position `json:"position"`
	MatchesPlayed int               `json:"matches_played"`
	TotalGoals    int               `json:"total_goals"`
	TotalAssists  int               `json:"total_assists"`
	TotalSaves    int               `json:"total_saves"`
	CleanSheets   int               `json:"clean_sheets"`
	Rating        int               `json:"rating"`
	GoalsPerMatch float64           `json:"goals_per_match"`
}

// Result is what gets recorded when a provisional match finishes. When
// Goals is non-empty the score is derived from the events and the supplied
// pair must agree with it.
type Result struct {
	ScoreA   int             `json:"score_a"`
	ScoreB   int             `json:"score_b"`
	Goals    []football.Goal `json:"goals"`
	Saves    map[string]int  `json:"saves"`
	PlayedAt int64           `json:"played_at"`
}
