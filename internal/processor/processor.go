package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/rating"
)

var errPublish = errors.New("failed to publish stats update")

// New creates a new Processor. A nil pubsub client makes the processor
// apply player stats inline instead of publishing a job.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		policy:   rating.DefaultPolicy(),
		now:      time.Now,
	}
}

// ProcessMatches fetches matches that need processing and advances them through the state machine.
func (p *Processor) ProcessMatches(dryRun bool) {
	log.Info("Starting match processing...")
	matches, err := p.store.GetMatchesForProcessing()
	if err != nil {
		log.Error("Failed to get matches for processing", "error", err)
		return
	}

	if len(matches) == 0 {
		log.Info("No matches to process.")
		return
	}

	log.Info("Found matches to process", "count", len(matches))
	for _, match := range matches {
		startTime := time.Now()
		p.processMatch(match, dryRun)
		p.metrics.ObserveProcessingDuration(time.Since(startTime).Seconds())
		p.metrics.IncMatchesProcessed()
	}
	log.Info("Match processing finished.")
}

func (p *Processor) processMatch(match *football.Match, dryRun bool) {
	log.Info("Processing match", "matchID", match.ID, "initial_status", match.ProcessingStatus)
	for {
		currentState := match.ProcessingStatus
		log.Debug("Evaluating match state", "matchID", match.ID, "status", currentState)

		switch currentState {
		case football.StatusNew:
			if match.Completed {
				log.Info("Match has a recorded result. Marking as result available.", "matchID", match.ID)
				p.updateStatus(match, football.StatusResultAvailable, dryRun)
			}

		case football.StatusResultAvailable:
			// Matches recorded long after kick-off are back-filled without a message.
			playedAt := time.Unix(match.PlayedAt, 0)
			if p.now().Sub(playedAt) < resultNotificationWindow {
				log.Info("Match result is available. Sending result notification.", "matchID", match.ID)
				if err := p.notifier.SendResultNotification(match, p.rateMatch(match), dryRun); err != nil {
					log.Error("Failed to send result notification", "error", err, "matchID", match.ID)
				}
			} else {
				log.Info("Match result is too old to announce. Skipping notification.", "matchID", match.ID, "playedAt", playedAt)
			}
			p.updateStatus(match, football.StatusResultNotified, dryRun)

		case football.StatusResultNotified:
			log.Info("Match result has been notified. Updating player stats.", "matchID", match.ID)
			if err := p.requestStatsUpdate(match, dryRun); err != nil {
				log.Error("Failed to request player stats update", "error", err, "matchID", match.ID)
				break
			}
			p.updateStatus(match, football.StatusStatsUpdated, dryRun)

		case football.StatusStatsUpdated:
			log.Info("Player stats updated. Marking match as complete.", "matchID", match.ID)
			p.updateStatus(match, football.StatusCompleted, dryRun)

		case football.StatusCompleted:
			log.Debug("Match is complete. No further processing needed.", "matchID", match.ID)
			return

		default:
			log.Warn("Unknown processing status", "status", currentState, "matchID", match.ID)
			return
		}

		// If the status hasn't changed, we're done with this match for now.
		if match.ProcessingStatus == currentState {
			log.Debug("Match state did not change. Finished processing for now.", "matchID", match.ID, "status", currentState)
			break
		}
	}
	log.Info("Finished processing match", "matchID", match.ID, "final_status", match.ProcessingStatus)
}

// requestStatsUpdate hands the fold to the stats worker, or runs it inline
// when no broker is configured.
func (p *Processor) requestStatsUpdate(match *football.Match, dryRun bool) error {
	if p.pubsub == nil {
		return p.UpdatePlayerStats(match.ID, dryRun)
	}
	if dryRun {
		log.Info("[Dry Run] Would publish stats update", "matchID", match.ID, "topic", pubsub.EventUpdatePlayerStats)
		return nil
	}
	if err := p.pubsub.SendMessage(pubsub.EventUpdatePlayerStats, pubsub.MatchEvent{MatchID: match.ID}); err != nil {
		return fmt.Errorf("%w: %w", errPublish, err)
	}
	return nil
}

func (p *Processor) rateMatch(match *football.Match) []rating.PlayerRating {
	players, err := p.store.GetPlayers(match.Participants())
	if err != nil {
		log.Error("Failed to load players for rating", "error", err, "matchID", match.ID)
		return nil
	}
	lookup := make(map[string]football.Player, len(players))
	for _, pl := range players {
		lookup[pl.ID] = pl
	}
	return p.policy.RateMatch(match, lookup)
}

// UpdatePlayerStats folds a completed match into its players' records. It
// is safe to call more than once for the same match.
func (p *Processor) UpdatePlayerStats(matchID string, dryRun bool) error {
	log.Debug("Updating player stats", "matchID", matchID)
	if dryRun {
		log.Info("[Dry Run] Would apply player stats", "matchID", matchID)
		return nil
	}
	folds, err := p.store.ApplyMatchStats(matchID)
	if err != nil {
		return fmt.Errorf("failed to apply stats for match %s: %w", matchID, err)
	}
	if len(folds) > 0 {
		p.metrics.IncStatsApplied()
	}
	return nil
}

// RemoveMatch deletes a match, taking its stats back out first.
func (p *Processor) RemoveMatch(matchID string, dryRun bool) error {
	match, err := p.store.GetMatch(matchID)
	if err != nil {
		return err
	}
	if dryRun {
		log.Info("[Dry Run] Would delete match", "matchID", matchID, "statsApplied", match.StatsApplied)
		return nil
	}
	if err := p.store.DeleteMatch(matchID); err != nil {
		return fmt.Errorf("failed to delete match %s: %w", matchID, err)
	}
	if match.StatsApplied {
		p.metrics.IncStatsReversed()
	}
	return nil
}

// AnnounceLeaderboard posts the current leaderboard.
func (p *Processor) AnnounceLeaderboard(dryRun bool) error {
	stats, err := p.store.GetPlayerStats()
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return p.notifier.SendLeaderboard(stats, dryRun)
}

func (p *Processor) updateStatus(match *football.Match, newStatus football.ProcessingStatus, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would update match status", "matchID", match.ID, "from", match.ProcessingStatus, "to", newStatus)
		match.ProcessingStatus = newStatus // Update in-memory for the loop
		return
	}

	err := p.store.UpdateProcessingStatus(match.ID, newStatus)
	if err != nil {
		log.Error("Failed to update processing status", "error", err, "matchID", match.ID)
	} else {
		log.Debug("Successfully updated status", "matchID", match.ID, "from", match.ProcessingStatus, "to", newStatus)
		match.ProcessingStatus = newStatus // Keep the in-memory object in sync
	}
}
