package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_matches_processed_total",
			Help: "The total number of matches processed by the result pipeline.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "touchline_match_processing_duration_seconds",
			Help:    "The duration of individual match processing.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StatsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_match_stats_applied_total",
			Help: "The total number of matches folded into player statistics.",
		}),
		StatsReversed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_match_stats_reversed_total",
			Help: "The total number of matches taken back out of player statistics.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "touchline_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "touchline_offline_cache_hits_total",
			Help: "Requests answered from an offline cache store.",
		}, []string{"strategy"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "touchline_offline_cache_misses_total",
			Help: "Cache lookups that found no usable entry.",
		}, []string{"strategy"}),
		NetworkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "touchline_offline_network_failures_total",
			Help: "Upstream fetches that failed during request handling.",
		}, []string{"strategy"}),
		OfflineFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "touchline_offline_fallbacks_total",
			Help: "Requests answered with the offline page or a synthesized offline response.",
		}, []string{"strategy"}),
		CachesPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_offline_caches_purged_total",
			Help: "Stale cache stores deleted at activation.",
		}),
	}

	reg.MustRegister(
		s.MatchesProcessed,
		s.ProcessingDuration,
		s.StatsApplied,
		s.StatsReversed,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
		s.CacheHits,
		s.CacheMisses,
		s.NetworkFailures,
		s.OfflineFallbacks,
		s.CachesPurged,
	)

	return s
}

func (s *Service) IncMatchesProcessed() {
	s.MatchesProcessed.Inc()
}

func (s *Service) ObserveProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) IncStatsApplied() {
	s.StatsApplied.Inc()
}

func (s *Service) IncStatsReversed() {
	s.StatsReversed.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}

func (s *Service) IncCacheHit(strategy string) {
	s.CacheHits.WithLabelValues(strategy).Inc()
}

func (s *Service) IncCacheMiss(strategy string) {
	s.CacheMisses.WithLabelValues(strategy).Inc()
}

func (s *Service) IncNetworkFailure(strategy string) {
	s.NetworkFailures.WithLabelValues(strategy).Inc()
}

func (s *Service) IncOfflineFallback(strategy string) {
	s.OfflineFallbacks.WithLabelValues(strategy).Inc()
}

func (s *Service) AddCachesPurged(count int) {
	s.CachesPurged.Add(float64(count))
}
