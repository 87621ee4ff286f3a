package club_test

import (
	"database/sql"
	"testing"

	"github.com/mauv0809/touchline/internal/club"
	"github.com/mauv0809/touchline/internal/database"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (club.ClubStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return club.New(db), db, dbTeardown
}

// seedSquad adds two three-player sides and returns a provisional match between them.
func seedSquad(t *testing.T, store club.ClubStore) *football.Match {
	t.Helper()

	squad := []football.Player{
		{ID: "gk-a", Name: "Keeper A", Position: football.Goalkeeper},
		{ID: "def-a", Name: "Back A", Position: football.Defender},
		{ID: "fwd-a", Name: "Striker A", Position: football.Forward},
		{ID: "gk-b", Name: "Keeper B", Position: football.Goalkeeper},
		{ID: "mid-b", Name: "Mid B", Position: football.Midfielder},
		{ID: "fwd-b", Name: "Striker B", Position: football.Forward},
	}
	for _, p := range squad {
		_, err := store.AddPlayer(p)
		require.NoError(t, err)
	}

	match := &football.Match{
		TeamA: []string{"gk-a", "def-a", "fwd-a"},
		TeamB: []string{"gk-b", "mid-b", "fwd-b"},
	}
	require.NoError(t, store.CreateMatch(match))
	return match
}

func threeNil() club.Result {
	return club.Result{
		Goals: []football.Goal{
			{ScorerID: "fwd-a", AssisterID: "def-a", Team: football.TeamA, Minute: 10},
			{ScorerID: "fwd-a", Team: football.TeamA, Minute: 30},
			{ScorerID: "mid-b", Team: football.TeamB, OwnGoal: true, Minute: 80},
		},
		Saves: map[string]int{"gk-a": 4, "gk-b": 7},
	}
}

func snapshot(t *testing.T, store club.ClubStore) map[string]football.Player {
	t.Helper()
	players, err := store.GetAllPlayers()
	require.NoError(t, err)
	byID := make(map[string]football.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	return byID
}

func TestAddAndGetPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	added, err := store.AddPlayer(football.Player{Name: "Bruno Alves", Position: football.Defender})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID, "an id should be generated")
	assert.Equal(t, football.DefaultRating, added.Rating)

	assert.True(t, store.IsKnownPlayer(added.ID))
	assert.False(t, store.IsKnownPlayer("nobody"))

	got, err := store.GetPlayer(added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bruno Alves", got.Name)

	_, err = store.GetPlayer("nobody")
	assert.ErrorIs(t, err, club.ErrNotFound)

	_, err = store.AddPlayer(football.Player{Name: "No Role", Position: "LIBERO"})
	assert.ErrorIs(t, err, club.ErrInvalidPlayer)
}

func TestUpsertPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	match := seedSquad(t, store)

	_, err := store.RecordResult(match.ID, threeNil())
	require.NoError(t, err)
	_, err = store.ApplyMatchStats(match.ID)
	require.NoError(t, err)
	before := snapshot(t, store)

	err = store.UpsertPlayers([]football.Player{
		{ID: "fwd-a", Name: "Striker A Renamed", Position: football.Midfielder},
		{ID: "new-1", Name: "New Signing", Position: football.Defender},
	})
	require.NoError(t, err)

	after := snapshot(t, store)
	moved := after["fwd-a"]
	assert.Equal(t, "Striker A Renamed", moved.Name)
	assert.Equal(t, football.Midfielder, moved.Position)
	assert.Equal(t, before["fwd-a"].TotalGoals, moved.TotalGoals, "counters survive an import")
	assert.Equal(t, before["fwd-a"].Rating, moved.Rating, "the rating survives an import")
	assert.Equal(t, football.DefaultRating, after["new-1"].Rating)

	t.Run("one invalid player rejects the whole batch", func(t *testing.T) {
		err := store.UpsertPlayers([]football.Player{
			{ID: "new-2", Name: "Fine", Position: football.Forward},
			{ID: "new-3", Name: "Bad", Position: "LIBERO"},
		})
		assert.ErrorIs(t, err, club.ErrInvalidPlayer)
		assert.False(t, store.IsKnownPlayer("new-2"))
	})

	t.Run("an id is required", func(t *testing.T) {
		err := store.UpsertPlayers([]football.Player{{Name: "Nameless Id", Position: football.Forward}})
		assert.ErrorIs(t, err, club.ErrInvalidPlayer)
	})
}

func TestGetPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	seedSquad(t, store)

	t.Run("gets multiple players in request order", func(t *testing.T) {
		players, err := store.GetPlayers([]string{"fwd-b", "gk-a"})
		require.NoError(t, err)
		require.Len(t, players, 2)
		assert.Equal(t, "fwd-b", players[0].ID)
		assert.Equal(t, "gk-a", players[1].ID)
	})

	t.Run("returns empty slice for unknown ids", func(t *testing.T) {
		players, err := store.GetPlayers([]string{"p4", "p5"})
		require.NoError(t, err)
		assert.Len(t, players, 0)
	})

	t.Run("returns empty slice for empty id slice", func(t *testing.T) {
		players, err := store.GetPlayers([]string{})
		require.NoError(t, err)
		assert.Len(t, players, 0)
	})
}

func TestCreateMatch(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	match := seedSquad(t, store)

	got, err := store.GetMatch(match.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed, "a new match is provisional")
	assert.Equal(t, football.StatusNew, got.ProcessingStatus)
	assert.Equal(t, []string{"gk-a", "def-a", "fwd-a"}, got.TeamA)
	assert.Equal(t, 0, got.ScoreA)

	t.Run("rejects a player on both sides", func(t *testing.T) {
		err := store.CreateMatch(&football.Match{TeamA: []string{"gk-a"}, TeamB: []string{"gk-a"}})
		assert.ErrorIs(t, err, club.ErrInvalidMatch)
	})

	t.Run("rejects an empty side", func(t *testing.T) {
		err := store.CreateMatch(&football.Match{TeamA: []string{"gk-a"}})
		assert.ErrorIs(t, err, club.ErrInvalidMatch)
	})

	t.Run("rejects a player with no record", func(t *testing.T) {
		err := store.CreateMatch(&football.Match{ID: "ghost-match", TeamA: []string{"gk-a"}, TeamB: []string{"ghost"}})
		assert.ErrorIs(t, err, club.ErrInvalidMatch)
		assert.Contains(t, err.Error(), "ghost")

		_, err = store.GetMatch("ghost-match")
		assert.ErrorIs(t, err, club.ErrNotFound, "nothing is stored for a rejected match")
	})
}

func TestRecordResult(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	match := seedSquad(t, store)

	completed, err := store.RecordResult(match.ID, threeNil())
	require.NoError(t, err)

	assert.True(t, completed.Completed)
	assert.Equal(t, 3, completed.ScoreA, "the own goal counts for Team A")
	assert.Equal(t, 0, completed.ScoreB)
	assert.Len(t, completed.Goals, 3)
	assert.Equal(t, 7, completed.Saves["gk-b"])
	assert.Equal(t, football.StatusResultAvailable, completed.ProcessingStatus)

	t.Run("a completed match cannot be completed again", func(t *testing.T) {
		_, err := store.RecordResult(match.ID, threeNil())
		assert.ErrorIs(t, err, club.ErrAlreadyCompleted)
	})

	t.Run("a score disagreeing with the goals is rejected", func(t *testing.T) {
		other := &football.Match{TeamA: []string{"gk-a"}, TeamB: []string{"gk-b"}}
		require.NoError(t, store.CreateMatch(other))
		_, err := store.RecordResult(other.ID, club.Result{
			ScoreA: 2,
			Goals:  []football.Goal{{ScorerID: "gk-a", Team: football.TeamA}},
		})
		assert.ErrorIs(t, err, club.ErrInvalidMatch)

		reloaded, err := store.GetMatch(other.ID)
		require.NoError(t, err)
		assert.False(t, reloaded.Completed, "a rejected result leaves the match provisional")
	})

	t.Run("a goal by an unrostered player is rejected", func(t *testing.T) {
		other := &football.Match{TeamA: []string{"def-a"}, TeamB: []string{"mid-b"}}
		require.NoError(t, store.CreateMatch(other))
		_, err := store.RecordResult(other.ID, club.Result{
			Goals: []football.Goal{{ScorerID: "fwd-b", Team: football.TeamB}},
		})
		assert.ErrorIs(t, err, club.ErrInvalidMatch)
	})

	t.Run("a plain score is accepted without events", func(t *testing.T) {
		other := &football.Match{TeamA: []string{"fwd-a"}, TeamB: []string{"fwd-b"}}
		require.NoError(t, store.CreateMatch(other))
		got, err := store.RecordResult(other.ID, club.Result{ScoreA: 1, ScoreB: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, got.ScoreA)
		assert.Equal(t, 1, got.ScoreB)
	})
}

func TestApplyMatchStats(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	match := seedSquad(t, store)

	_, err := store.ApplyMatchStats(match.ID)
	assert.ErrorIs(t, err, club.ErrNotCompleted, "a provisional match has no stat effects")

	_, err = store.RecordResult(match.ID, threeNil())
	require.NoError(t, err)

	folds, err := store.ApplyMatchStats(match.ID)
	require.NoError(t, err)
	assert.Len(t, folds, 6)

	after := snapshot(t, store)
	assert.Equal(t, 1, after["fwd-a"].MatchesPlayed)
	assert.Equal(t, 2, after["fwd-a"].TotalGoals)
	assert.Equal(t, 0, after["mid-b"].TotalGoals, "own goals are not credited")
	assert.Equal(t, 1, after["def-a"].TotalAssists)
	assert.Equal(t, 7, after["gk-b"].TotalSaves)
	assert.Equal(t, 1, after["gk-a"].CleanSheets)
	assert.Equal(t, 0, after["fwd-a"].CleanSheets)
	assert.Equal(t, 57, after["fwd-a"].Rating)

	t.Run("stats are applied exactly once", func(t *testing.T) {
		folds, err := store.ApplyMatchStats(match.ID)
		require.NoError(t, err)
		assert.Empty(t, folds)
		assert.Equal(t, after, snapshot(t, store))
	})
}

func TestApplyMatchStats_AllOrNothing(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	match := seedSquad(t, store)

	_, err := store.RecordResult(match.ID, threeNil())
	require.NoError(t, err)

	_, err = db.Exec(`
		CREATE TRIGGER fail_keeper_b BEFORE UPDATE ON players
		WHEN NEW.id = 'gk-b'
		BEGIN SELECT RAISE(ABORT, 'simulated failure'); END;`)
	require.NoError(t, err)

	before := snapshot(t, store)
	_, err = store.ApplyMatchStats(match.ID)
	require.Error(t, err)

	assert.Equal(t, before, snapshot(t, store), "no player is updated when one update fails")
	reloaded, err := store.GetMatch(match.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.StatsApplied)
}

func TestReverseMatchStats_RoundTrip(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	match := seedSquad(t, store)

	before := snapshot(t, store)
	_, err := store.RecordResult(match.ID, threeNil())
	require.NoError(t, err)
	_, err = store.ApplyMatchStats(match.ID)
	require.NoError(t, err)
	applied := snapshot(t, store)

	_, err = store.ReverseMatchStats(match.ID)
	require.NoError(t, err)
	after := snapshot(t, store)

	for id, orig := range before {
		got := after[id]
		assert.Equal(t, orig.MatchesPlayed, got.MatchesPlayed, id)
		assert.Equal(t, orig.TotalGoals, got.TotalGoals, id)
		assert.Equal(t, orig.TotalAssists, got.TotalAssists, id)
		assert.Equal(t, orig.TotalSaves, got.TotalSaves, id)
		assert.Equal(t, orig.CleanSheets, got.CleanSheets, id)
		assert.Equal(t, applied[id].Rating, got.Rating, "reversal leaves the overall rating unchanged for %s", id)
	}
	assert.NotEqual(t, before["fwd-a"].Rating, after["fwd-a"].Rating)

	t.Run("reversing twice is a no-op", func(t *testing.T) {
		folds, err := store.ReverseMatchStats(match.ID)
		require.NoError(t, err)
		assert.Empty(t, folds)
	})
}

func TestDeleteMatch(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	match := seedSquad(t, store)

	_, err := store.RecordResult(match.ID, threeNil())
	require.NoError(t, err)
	_, err = store.ApplyMatchStats(match.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteMatch(match.ID))

	_, err = store.GetMatch(match.ID)
	assert.ErrorIs(t, err, club.ErrNotFound)

	var goals int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM goals WHERE match_id = ?", match.ID).Scan(&goals))
	assert.Zero(t, goals, "goal events are removed with the match")

	after := snapshot(t, store)
	assert.Equal(t, 0, after["fwd-a"].MatchesPlayed)
	assert.Equal(t, 0, after["fwd-a"].TotalGoals)

	assert.ErrorIs(t, store.DeleteMatch(match.ID), club.ErrNotFound)
}

func TestDeleteMatch_AfterPositionChange(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	match := seedSquad(t, store)

	_, err := store.RecordResult(match.ID, threeNil())
	require.NoError(t, err)
	_, err = store.ApplyMatchStats(match.ID)
	require.NoError(t, err)
	require.Equal(t, 1, snapshot(t, store)["def-a"].CleanSheets)

	require.NoError(t, store.UpsertPlayers([]football.Player{
		{ID: "def-a", Name: "Back A", Position: football.Forward},
	}))
	require.NoError(t, store.DeleteMatch(match.ID))

	after := snapshot(t, store)
	assert.Equal(t, 0, after["def-a"].CleanSheets, "the clean sheet earned as a defender is taken back")
	assert.Equal(t, 0, after["def-a"].MatchesPlayed)
	assert.Equal(t, 0, after["def-a"].TotalAssists)
	assert.Equal(t, 0, after["gk-a"].CleanSheets)

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM match_stats").Scan(&rows))
	assert.Zero(t, rows)
}

func TestReverseMatchStats_ClearsAppliedRecord(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	match := seedSquad(t, store)

	_, err := store.RecordResult(match.ID, threeNil())
	require.NoError(t, err)
	_, err = store.ApplyMatchStats(match.ID)
	require.NoError(t, err)

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM match_stats WHERE match_id = ?", match.ID).Scan(&rows))
	assert.Equal(t, 6, rows, "one applied delta per participant")

	_, err = store.ReverseMatchStats(match.ID)
	require.NoError(t, err)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM match_stats WHERE match_id = ?", match.ID).Scan(&rows))
	assert.Zero(t, rows)
}

func TestGetMatchesForProcessing(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	match := seedSquad(t, store)

	matches, err := store.GetMatchesForProcessing()
	require.NoError(t, err)
	assert.Empty(t, matches, "provisional matches are not processed")

	_, err = store.RecordResult(match.ID, threeNil())
	require.NoError(t, err)

	matches, err = store.GetMatchesForProcessing()
	require.NoError(t, err)
	require.Len(t, matches, 1)

	require.NoError(t, store.UpdateProcessingStatus(match.ID, football.StatusCompleted))
	matches, err = store.GetMatchesForProcessing()
	require.NoError(t, err)
	assert.Empty(t, matches)

	assert.ErrorIs(t, store.UpdateProcessingStatus("missing", football.StatusCompleted), club.ErrNotFound)
}

func TestGetPlayerStatsByName(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.AddPlayer(football.Player{ID: "p1", Name: "Bruno Alves", Position: football.Defender, MatchesPlayed: 10, TotalGoals: 5})
	require.NoError(t, err)

	t.Run("finds player with a fuzzy name", func(t *testing.T) {
		stats, err := store.GetPlayerStatsByName("bruno")
		require.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, "Bruno Alves", stats.PlayerName)
		assert.Equal(t, 10, stats.MatchesPlayed)
		assert.InDelta(t, 0.5, stats.GoalsPerMatch, 0.001)
	})

	t.Run("returns error when player not found", func(t *testing.T) {
		stats, err := store.GetPlayerStatsByName("nonexistent")
		assert.ErrorIs(t, err, club.ErrNotFound)
		assert.Nil(t, stats)
	})
}

func TestGetPlayerStats_OrdersByRating(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.AddPlayer(football.Player{ID: "low", Name: "Low", Position: football.Forward, Rating: 40})
	require.NoError(t, err)
	_, err = store.AddPlayer(football.Player{ID: "high", Name: "High", Position: football.Forward, Rating: 80})
	require.NoError(t, err)

	stats, err := store.GetPlayerStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "high", stats[0].PlayerID)
}
