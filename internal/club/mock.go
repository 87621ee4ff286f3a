package club

import (
	"sync"

	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/rating"
)

var _ ClubStore = (*MockStore)(nil)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AddPlayerFunc               func(player football.Player) (football.Player, error)
	UpsertPlayersFunc           func(players []football.Player) error
	GetPlayerFunc               func(playerID string) (*football.Player, error)
	GetPlayersFunc              func(playerIDs []string) ([]football.Player, error)
	GetAllPlayersFunc           func() ([]football.Player, error)
	IsKnownPlayerFunc           func(playerID string) bool
	GetPlayerStatsFunc          func() ([]PlayerStats, error)
	GetPlayerStatsByNameFunc    func(playerName string) (*PlayerStats, error)
	CreateMatchFunc             func(match *football.Match) error
	RecordResultFunc            func(matchID string, result Result) (*football.Match, error)
	GetMatchFunc                func(matchID string) (*football.Match, error)
	GetAllMatchesFunc           func() ([]*football.Match, error)
	GetMatchesForProcessingFunc func() ([]*football.Match, error)
	UpdateProcessingStatusFunc  func(matchID string, status football.ProcessingStatus) error
	DeleteMatchFunc             func(matchID string) error
	ApplyMatchStatsFunc         func(matchID string) ([]rating.Fold, error)
	ReverseMatchStatsFunc       func(matchID string) ([]rating.Fold, error)

	// Call records
	UpdateProcessingStatusCalls []struct {
		MatchID string
		Status  football.ProcessingStatus
	}
	ApplyMatchStatsCalls   []string
	ReverseMatchStatsCalls []string
	DeleteMatchCalls       []string
	GetPlayersCalls        [][]string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateProcessingStatusCalls = nil
	m.ApplyMatchStatsCalls = nil
	m.ReverseMatchStatsCalls = nil
	m.DeleteMatchCalls = nil
	m.GetPlayersCalls = nil
}

func (m *MockStore) AddPlayer(player football.Player) (football.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(player)
	}
	return player, nil
}

func (m *MockStore) UpsertPlayers(players []football.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(players)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*football.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetPlayers(playerIDs []string) ([]football.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayersCalls = append(m.GetPlayersCalls, playerIDs)
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return nil, nil
}

func (m *MockStore) GetAllPlayers() ([]football.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return false
}

func (m *MockStore) GetPlayerStats() ([]PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerStatsFunc != nil {
		return m.GetPlayerStatsFunc()
	}
	return nil, nil
}

func (m *MockStore) GetPlayerStatsByName(playerName string) (*PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerStatsByNameFunc != nil {
		return m.GetPlayerStatsByNameFunc(playerName)
	}
	return nil, ErrNotFound
}

func (m *MockStore) CreateMatch(match *football.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(match)
	}
	return nil
}

func (m *MockStore) RecordResult(matchID string, result Result) (*football.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordResultFunc != nil {
		return m.RecordResultFunc(matchID, result)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetMatch(matchID string) (*football.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetAllMatches() ([]*football.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return nil, nil
}

func (m *MockStore) GetMatchesForProcessing() ([]*football.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchesForProcessingFunc != nil {
		return m.GetMatchesForProcessingFunc()
	}
	return nil, nil
}

func (m *MockStore) UpdateProcessingStatus(matchID string, status football.ProcessingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateProcessingStatusCalls = append(m.UpdateProcessingStatusCalls, struct {
		MatchID string
		Status  football.ProcessingStatus
	}{matchID, status})
	if m.UpdateProcessingStatusFunc != nil {
		return m.UpdateProcessingStatusFunc(matchID, status)
	}
	return nil
}

func (m *MockStore) DeleteMatch(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, matchID)
	if m.DeleteMatchFunc != nil {
		return m.DeleteMatchFunc(matchID)
	}
	return nil
}

func (m *MockStore) ApplyMatchStats(matchID string) ([]rating.Fold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyMatchStatsCalls = append(m.ApplyMatchStatsCalls, matchID)
	if m.ApplyMatchStatsFunc != nil {
		return m.ApplyMatchStatsFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) ReverseMatchStats(matchID string) ([]rating.Fold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReverseMatchStatsCalls = append(m.ReverseMatchStatsCalls, matchID)
	if m.ReverseMatchStatsFunc != nil {
		return m.ReverseMatchStatsFunc(matchID)
	}
	return nil, nil
}
