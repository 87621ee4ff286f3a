package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/touchline/internal/club"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/rating"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(plainSection("hello"))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func resultFixture() (*football.Match, []rating.PlayerRating) {
	match := &football.Match{
		ID:     "m1",
		TeamA:  []string{"p1", "p2"},
		TeamB:  []string{"p3"},
		ScoreA: 2,
		ScoreB: 0,
		Goals: []football.Goal{
			{ScorerID: "p1", AssisterID: "p2", Team: football.TeamA, Minute: 12},
			{ScorerID: "p3", Team: football.TeamB, OwnGoal: true, Minute: 70},
		},
		Completed: true,
		PlayedAt:  1751990400,
	}
	ratings := []rating.PlayerRating{
		{PlayerID: "p1", Name: "Ada", Rating: 8.1},
		{PlayerID: "p2", Name: "Bo", Rating: 7.5},
		{PlayerID: "p3", Name: "Cy", Rating: 5.2},
	}
	return match, ratings
}

func TestFormatResultNotification(t *testing.T) {
	match, ratings := resultFixture()
	client := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	msg := client.formatResultNotification(match, ratings)
	require.Len(t, msg.Blocks.BlockSet, 5)

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "Full time")

	score, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, score.Text.Text, "Team A 2 - 0 Team B")

	rosters, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	require.Len(t, rosters.Fields, 2)
	assert.Contains(t, rosters.Fields[0].Text, "Ada")
	assert.Contains(t, rosters.Fields[1].Text, "Cy")

	goals, ok := msg.Blocks.BlockSet[3].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, goals.Text.Text, "12' Ada (assist Bo)")
	assert.Contains(t, goals.Text.Text, "70' Cy (OG)")

	motm, ok := msg.Blocks.BlockSet[4].(*slackapi.ContextBlock)
	require.True(t, ok)
	text, ok := motm.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Ada (8.1)")
}

func TestSendResultNotification_CallsSender(t *testing.T) {
	called := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			called = true
			return "C123", "ts123", nil
		},
	}
	match, ratings := resultFixture()
	n := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	require.NoError(t, n.SendResultNotification(match, ratings, false))
	assert.True(t, called)
}

func TestFormatLeaderboard(t *testing.T) {
	client := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	t.Run("empty", func(t *testing.T) {
		msg := client.formatLeaderboard(nil)
		require.Len(t, msg.Blocks.BlockSet, 2)
		section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Contains(t, section.Text.Text, "No stats available yet")
	})

	t.Run("ranked", func(t *testing.T) {
		stats := []club.PlayerStats{
			{PlayerName: "Ada", Position: football.Forward, Rating: 71, TotalGoals: 9, MatchesPlayed: 6},
			{PlayerName: "Bo", Position: football.Goalkeeper, Rating: 60, MatchesPlayed: 6},
		}
		msg := client.formatLeaderboard(stats)
		require.Len(t, msg.Blocks.BlockSet, 3)
		first := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Contains(t, first.Text.Text, "1. 🥇 Ada (FWD)")
		assert.Contains(t, first.Text.Text, "Rating: 71 | Goals: 9")
	})
}

func TestFormatPlayerStats(t *testing.T) {
	client := NewNotifierWithAPI(nil, "C123", metrics.NewMock())
	msg := client.formatPlayerStats(&club.PlayerStats{PlayerName: "Ada", Rating: 64, TotalGoals: 4, MatchesPlayed: 2, GoalsPerMatch: 2})

	require.Len(t, msg.Blocks.BlockSet, 2)
	header := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	assert.Contains(t, header.Text.Text, "Ada")
	section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	assert.Contains(t, section.Text.Text, "*Goals*: 4 (2.00 per match)")
}

func TestFormatPush(t *testing.T) {
	client := NewNotifierWithAPI(nil, "C123", metrics.NewMock())
	msg := client.formatPush(notifier.Push{
		Title:   "Match tonight",
		Body:    "Kick-off at 19:00",
		URL:     "https://touchline.example/",
		Actions: notifier.DefaultActions(),
	})

	require.Len(t, msg.Blocks.BlockSet, 3)
	actions, ok := msg.Blocks.BlockSet[2].(*slackapi.ActionBlock)
	require.True(t, ok)
	require.Len(t, actions.Elements.ElementSet, 2)

	open := actions.Elements.ElementSet[0].(*slackapi.ButtonBlockElement)
	assert.Equal(t, notifier.ActionOpen, open.ActionID)
	assert.Equal(t, "https://touchline.example/", open.URL)

	dismiss := actions.Elements.ElementSet[1].(*slackapi.ButtonBlockElement)
	assert.Equal(t, notifier.ActionDismiss, dismiss.ActionID)
	assert.Empty(t, dismiss.URL)
}
