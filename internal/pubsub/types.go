package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
// The value doubles as the topic name.
type EventType string

const (
	EventUpdatePlayerStats EventType = "update-player-stats"
)

// MatchEvent is the payload published for every match level event.
type MatchEvent struct {
	MatchID string `msgpack:"match_id"`
	DryRun  bool   `msgpack:"dry_run"`
}
