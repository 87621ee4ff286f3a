package notifier

import (
	"github.com/mauv0809/touchline/internal/club"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/rating"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For completed matches
	SendResultNotification(match *football.Match, ratings []rating.PlayerRating, dryRun bool) error
	SendLeaderboard(stats []club.PlayerStats, dryRun bool) error
	SendPlayerStats(stats *club.PlayerStats, dryRun bool) error
	// For offline edge push events
	SendPushNotification(push Push, dryRun bool) error

	// For formatting responses without posting them
	FormatLeaderboardResponse(stats []club.PlayerStats) (any, error)
	FormatPlayerStatsResponse(stats *club.PlayerStats) (any, error)
}

// Push is a user-facing notification raised by the offline edge.
type Push struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	URL     string   `json:"url"`
	Actions []Action `json:"actions"`
}

// Action is a button attached to a push notification.
type Action struct {
	ID    string `json:"action"`
	Title string `json:"title"`
}

const (
	ActionOpen    = "open"
	ActionDismiss = "dismiss"
)

// DefaultActions are attached to every push notification.
func DefaultActions() []Action {
	return []Action{
		{ID: ActionOpen, Title: "Open app"},
		{ID: ActionDismiss, Title: "Dismiss"},
	}
}
