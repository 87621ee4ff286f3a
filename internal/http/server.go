package http

import (
	"net/http"

	"github.com/mauv0809/touchline/internal/club"
	"github.com/mauv0809/touchline/internal/config"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/processor"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/rating"
	"github.com/mauv0809/touchline/internal/simulation"
)

func NewServer(store club.ClubStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	policy := rating.DefaultPolicy()
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Simulator:      simulation.New(policy),
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
		policy:         policy,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// Every handler goes through Chain so new middlewares only need adding here.
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/players", Chain(s.AddPlayerHandler(), paramsMiddleware))
	s.Router.Handle("PUT /api/players", Chain(s.ImportPlayersHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/players/stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/players/stats/announce", Chain(s.AnnouncePlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/players/{id}", Chain(s.GetPlayerHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/matches", Chain(s.CreateMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/matches/{id}/result", Chain(s.RecordResultHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /api/matches/{id}", Chain(s.DeleteMatchHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/leaderboard/announce", Chain(s.AnnounceLeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/simulate", Chain(s.SimulateHandler(), paramsMiddleware))

	s.Router.Handle("POST /process", Chain(s.ProcessMatchesHandler(), paramsMiddleware))
	s.Router.Handle("POST /update-player-stats", Chain(s.UpdatePlayerStatsHandler(), paramsMiddleware))

	s.Router.Handle("POST /slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
	s.Router.Handle("POST /slack/command/player-stats", Chain(s.PlayerStatsCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
