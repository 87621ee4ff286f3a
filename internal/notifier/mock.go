package notifier

import (
	"sync"

	"github.com/mauv0809/touchline/internal/club"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/rating"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendResultNotificationCalls []struct {
		Match   *football.Match
		Ratings []rating.PlayerRating
	}
	SendLeaderboardCalls      [][]club.PlayerStats
	SendPlayerStatsCalls      []*club.PlayerStats
	SendPushNotificationCalls []Push

	// Spies
	SendResultNotificationFunc    func(match *football.Match, ratings []rating.PlayerRating, dryRun bool) error
	SendPushNotificationFunc      func(push Push, dryRun bool) error
	FormatLeaderboardResponseFunc func(stats []club.PlayerStats) (any, error)
	FormatPlayerStatsResponseFunc func(stats *club.PlayerStats) (any, error)
}

// NewMock creates a new mock notifier.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.SendLeaderboardCalls = nil
	m.SendPlayerStatsCalls = nil
	m.SendPushNotificationCalls = nil
}

func (m *Mock) SendResultNotification(match *football.Match, ratings []rating.PlayerRating, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, struct {
		Match   *football.Match
		Ratings []rating.PlayerRating
	}{match, ratings})
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(match, ratings, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(stats []club.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, stats)
	return nil
}

func (m *Mock) SendPlayerStats(stats *club.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerStatsCalls = append(m.SendPlayerStatsCalls, stats)
	return nil
}

func (m *Mock) SendPushNotification(push Push, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPushNotificationCalls = append(m.SendPushNotificationCalls, push)
	if m.SendPushNotificationFunc != nil {
		return m.SendPushNotificationFunc(push, dryRun)
	}
	return nil
}

func (m *Mock) FormatLeaderboardResponse(stats []club.PlayerStats) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(stats)
	}
	return map[string]any{"players": len(stats)}, nil
}

func (m *Mock) FormatPlayerStatsResponse(stats *club.PlayerStats) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerStatsResponseFunc != nil {
		return m.FormatPlayerStatsResponseFunc(stats)
	}
	return map[string]any{"player": stats.PlayerName}, nil
}
