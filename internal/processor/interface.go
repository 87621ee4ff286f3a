package processor

import (
	"github.com/mauv0809/touchline/internal/club"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/rating"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetMatch(matchID string) (*football.Match, error)
	GetMatchesForProcessing() ([]*football.Match, error)
	UpdateProcessingStatus(matchID string, status football.ProcessingStatus) error
	GetPlayers(playerIDs []string) ([]football.Player, error)
	GetPlayerStats() ([]club.PlayerStats, error)
	ApplyMatchStats(matchID string) ([]rating.Fold, error)
	DeleteMatch(matchID string) error
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
