package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesProcessed()
	ObserveProcessingDuration(duration float64)
	IncStatsApplied()
	IncStatsReversed()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)

	// Offline cache controller, labelled by routing strategy.
	IncCacheHit(strategy string)
	IncCacheMiss(strategy string)
	IncNetworkFailure(strategy string)
	IncOfflineFallback(strategy string)
	AddCachesPurged(count int)
}
