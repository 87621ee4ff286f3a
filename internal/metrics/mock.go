package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	matchesProcessed    int
	processingDurations []float64
	statsApplied        int
	statsReversed       int
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
	cacheHits           map[string]int
	cacheMisses         map[string]int
	networkFailures     map[string]int
	offlineFallbacks    map[string]int
	cachesPurged        int
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		processingDurations: make([]float64, 0),
		cacheHits:           make(map[string]int),
		cacheMisses:         make(map[string]int),
		networkFailures:     make(map[string]int),
		offlineFallbacks:    make(map[string]int),
	}
}

func (m *Mock) IncMatchesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesProcessed++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) IncStatsApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsApplied++
}

func (m *Mock) IncStatsReversed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsReversed++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

func (m *Mock) IncCacheHit(strategy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits[strategy]++
}

func (m *Mock) IncCacheMiss(strategy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses[strategy]++
}

func (m *Mock) IncNetworkFailure(strategy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.networkFailures[strategy]++
}

func (m *Mock) IncOfflineFallback(strategy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offlineFallbacks[strategy]++
}

func (m *Mock) AddCachesPurged(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cachesPurged += count
}

// MatchesProcessed returns the number of times IncMatchesProcessed was called.
func (m *Mock) MatchesProcessed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesProcessed
}

// StatsApplied returns the number of times IncStatsApplied was called.
func (m *Mock) StatsApplied() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsApplied
}

// StatsReversed returns the number of times IncStatsReversed was called.
func (m *Mock) StatsReversed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsReversed
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// CacheHits returns the hit count recorded for a strategy.
func (m *Mock) CacheHits(strategy string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheHits[strategy]
}

// CacheMisses returns the miss count recorded for a strategy.
func (m *Mock) CacheMisses(strategy string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheMisses[strategy]
}

// NetworkFailures returns the network failure count recorded for a strategy.
func (m *Mock) NetworkFailures(strategy string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.networkFailures[strategy]
}

// OfflineFallbacks returns the offline fallback count recorded for a strategy.
func (m *Mock) OfflineFallbacks(strategy string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offlineFallbacks[strategy]
}

// CachesPurged returns the total passed to AddCachesPurged.
func (m *Mock) CachesPurged() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cachesPurged
}
