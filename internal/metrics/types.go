package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchesProcessed   prometheus.Counter
	ProcessingDuration prometheus.Histogram
	StatsApplied       prometheus.Counter
	StatsReversed      prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge

	CacheHits        *prometheus.CounterVec
	CacheMisses      *prometheus.CounterVec
	NetworkFailures  *prometheus.CounterVec
	OfflineFallbacks *prometheus.CounterVec
	CachesPurged     prometheus.Counter
}
