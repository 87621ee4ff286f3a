package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/club"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/rating"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	location  *time.Location
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		loc = time.UTC
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		location:  loc,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendResultNotification(match *football.Match, ratings []rating.PlayerRating, dryRun bool) error {
	msg := s.formatResultNotification(match, ratings)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(stats []club.PlayerStats, dryRun bool) error {
	msg := s.formatLeaderboard(stats)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendPlayerStats(stats *club.PlayerStats, dryRun bool) error {
	msg := s.formatPlayerStats(stats)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendPushNotification(push notifier.Push, dryRun bool) error {
	msg := s.formatPush(push)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message without posting it.
func (s *Notifier) FormatLeaderboardResponse(stats []club.PlayerStats) (any, error) {
	return s.formatLeaderboard(stats), nil
}

// FormatPlayerStatsResponse formats a player stats message without posting it.
func (s *Notifier) FormatPlayerStatsResponse(stats *club.PlayerStats) (any, error) {
	return s.formatPlayerStats(stats), nil
}

func plainSection(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil)
}

// formatResultNotification creates the Slack message for a finished match using Block Kit.
func (s *Notifier) formatResultNotification(match *football.Match, ratings []rating.PlayerRating) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚽ Full time! ⚽", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	names := make(map[string]string, len(ratings))
	for _, r := range ratings {
		names[r.PlayerID] = r.Name
	}
	nameOf := func(id string) string {
		if n := names[id]; n != "" {
			return n
		}
		return id
	}

	playedAt := time.Unix(match.PlayedAt, 0).In(s.location).Format("Monday 02 Jan, 15:04")
	scoreText := fmt.Sprintf("Team A %d - %d Team B\n%s", match.ScoreA, match.ScoreB, playedAt)
	blocks = append(blocks, plainSection(scoreText))

	// Rosters side by side
	var fields []*slack.TextBlockObject
	for _, team := range []football.TeamLabel{football.TeamA, football.TeamB} {
		var lines []string
		for _, id := range match.Roster(team) {
			lines = append(lines, "• "+nameOf(id))
		}
		text := fmt.Sprintf("Team %s\n%s", team, strings.Join(lines, "\n"))
		fields = append(fields, slack.NewTextBlockObject("plain_text", text, true, false))
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	if len(match.Goals) > 0 {
		var lines []string
		for _, g := range match.Goals {
			line := nameOf(g.ScorerID)
			if g.Minute > 0 {
				line = fmt.Sprintf("%d' %s", g.Minute, line)
			}
			if g.OwnGoal {
				line += " (OG)"
			}
			if g.AssisterID != "" {
				line += fmt.Sprintf(" (assist %s)", nameOf(g.AssisterID))
			}
			lines = append(lines, "• "+line)
		}
		blocks = append(blocks, plainSection("Goals:\n"+strings.Join(lines, "\n")))
	}

	if best, ok := rating.Best(ratings); ok {
		motm := fmt.Sprintf("🏅 Player of the match: %s (%.1f)", nameOf(best.PlayerID), best.Rating)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", motm, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the player leaderboard.
func (s *Notifier) formatLeaderboard(stats []club.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Squad Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(stats) == 0 {
		blocks = append(blocks, plainSection("No stats available yet. Go play some matches!"))
		return slack.NewBlockMessage(blocks...)
	}

	for i, stat := range stats {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s (%s)\n> Rating: %d | Goals: %d | Assists: %d | Played: %d",
			rank,
			medal,
			stat.PlayerName,
			stat.Position,
			stat.Rating,
			stat.TotalGoals,
			stat.TotalAssists,
			stat.MatchesPlayed,
		)
		blocks = append(blocks, plainSection(playerText))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's stats.
func (s *Notifier) formatPlayerStats(stat *club.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("📊 Stats for %s", stat.PlayerName)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	playerText := fmt.Sprintf("> *Rating*: %d\n> *Matches*: %d\n> *Goals*: %d (%.2f per match)\n> *Assists*: %d\n> *Saves*: %d\n> *Clean sheets*: %d",
		stat.Rating,
		stat.MatchesPlayed,
		stat.TotalGoals,
		stat.GoalsPerMatch,
		stat.TotalAssists,
		stat.TotalSaves,
		stat.CleanSheets,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPush renders an edge push notification with its action buttons.
func (s *Notifier) formatPush(push notifier.Push) slack.Message {
	blocks := make([]slack.Block, 0)

	title := push.Title
	if title == "" {
		title = "Touchline"
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)))
	if push.Body != "" {
		blocks = append(blocks, plainSection(push.Body))
	}

	var elements []slack.BlockElement
	for _, action := range push.Actions {
		btn := slack.NewButtonBlockElement(action.ID, action.ID, slack.NewTextBlockObject("plain_text", action.Title, true, false))
		if action.ID == notifier.ActionOpen && push.URL != "" {
			btn.URL = push.URL
		}
		elements = append(elements, btn)
	}
	if len(elements) > 0 {
		blocks = append(blocks, slack.NewActionBlock("push-actions", elements...))
	}

	return slack.NewBlockMessage(blocks...)
}
