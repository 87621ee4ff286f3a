package processor

import (
	"time"

	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/rating"
)

// resultNotificationWindow bounds how old a match may be and still get a
// result message. Older matches are back-filled silently.
const resultNotificationWindow = 24 * time.Hour

// Processor handles the business logic of processing matches.
type Processor struct {
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	policy   rating.Policy
	now      func() time.Time
}
