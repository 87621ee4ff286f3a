package http

import (
	"net/http"

	"github.com/mauv0809/touchline/internal/club"
	"github.com/mauv0809/touchline/internal/config"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/processor"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/rating"
	"github.com/mauv0809/touchline/internal/simulation"
)

type Server struct {
	Store          club.ClubStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Simulator      *simulation.Simulator
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
	policy         rating.Policy
}

// pushEnvelope is the body Pub/Sub push subscriptions POST to us.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID   string `json:"messageId"`
		Data string `json:"data"`
	} `json:"message"`
}

type simulateRequest struct {
	PlayerIDs []string           `json:"player_ids"`
	Options   simulation.Options `json:"options"`
	Save      bool               `json:"save"`
}

type matchView struct {
	Match   *football.Match       `json:"match"`
	Ratings []rating.PlayerRating `json:"ratings"`
	Best    *rating.PlayerRating  `json:"player_of_the_match,omitempty"`
}
