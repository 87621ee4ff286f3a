package club

import (
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/rating"
)

// ClubStore defines the interface for interacting with the club's data.
type ClubStore interface {
	AddPlayer(player football.Player) (football.Player, error)
	UpsertPlayers(players []football.Player) error
	GetPlayer(playerID string) (*football.Player, error)
	GetPlayers(playerIDs []string) ([]football.Player, error)
	GetAllPlayers() ([]football.Player, error)
	IsKnownPlayer(playerID string) bool
	GetPlayerStats() ([]PlayerStats, error)
	GetPlayerStatsByName(playerName string) (*PlayerStats, error)

	CreateMatch(match *football.Match) error
	RecordResult(matchID string, result Result) (*football.Match, error)
	GetMatch(matchID string) (*football.Match, error)
	GetAllMatches() ([]*football.Match, error)
	GetMatchesForProcessing() ([]*football.Match, error)
	UpdateProcessingStatus(matchID string, status football.ProcessingStatus) error
	DeleteMatch(matchID string) error

	// ApplyMatchStats folds a completed match into every participant's
	// record in a single transaction. It is a no-op for a match whose stats
	// were already applied.
	ApplyMatchStats(matchID string) ([]rating.Fold, error)
	// ReverseMatchStats takes a match back out of the participants' records.
	ReverseMatchStats(matchID string) ([]rating.Fold, error)
}
