package club

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/rating"
)

// New creates a new ClubStore rating matches with the default policy.
func New(db *sql.DB) ClubStore {
	return NewWithPolicy(db, rating.DefaultPolicy())
}

// NewWithPolicy creates a ClubStore with a custom rating policy.
func NewWithPolicy(db *sql.DB, policy rating.Policy) ClubStore {
	return &store{
		db:     db,
		policy: policy,
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

const playerColumns = `id, name, position, matches_played, total_goals, total_assists, total_saves, clean_sheets, rating`

func scanPlayer(scanner interface{ Scan(...any) error }) (football.Player, error) {
	var p football.Player
	err := scanner.Scan(&p.ID, &p.Name, &p.Position, &p.MatchesPlayed, &p.TotalGoals, &p.TotalAssists, &p.TotalSaves, &p.CleanSheets, &p.Rating)
	return p, err
}

// AddPlayer inserts a new squad member, assigning an id and the default
// rating when they are missing.
func (s *store) AddPlayer(player football.Player) (football.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validatePlayer(player); err != nil {
		return football.Player{}, err
	}
	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	if player.Rating == 0 {
		player.Rating = football.DefaultRating
	}

	_, err := s.db.Exec(`
		INSERT INTO players (`+playerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		player.ID, player.Name, player.Position, player.MatchesPlayed, player.TotalGoals,
		player.TotalAssists, player.TotalSaves, player.CleanSheets, player.Rating)
	if err != nil {
		return football.Player{}, fmt.Errorf("failed to add player: %w", err)
	}
	log.Info("Added player to the squad", "playerID", player.ID, "name", player.Name, "position", player.Position)
	return player, nil
}

func validatePlayer(player football.Player) error {
	if !player.Position.Valid() {
		return fmt.Errorf("%w: invalid position %q", ErrInvalidPlayer, player.Position)
	}
	if strings.TrimSpace(player.Name) == "" {
		return fmt.Errorf("%w: player name is required", ErrInvalidPlayer)
	}
	return nil
}

// UpsertPlayers imports a squad list: new ids are inserted, known ids are
// renamed or moved to a new position. Counters and ratings of existing
// players are left alone. Either every player is written or none is.
func (s *store) UpsertPlayers(players []football.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range players {
		if p.ID == "" {
			return fmt.Errorf("%w: player %q has no id", ErrInvalidPlayer, p.Name)
		}
		if err := validatePlayer(p); err != nil {
			return fmt.Errorf("player %s: %w", p.ID, err)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO players (id, name, position, rating)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			position = excluded.position;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		if p.Rating == 0 {
			p.Rating = football.DefaultRating
		}
		if _, err := stmt.Exec(p.ID, p.Name, p.Position, p.Rating); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Imported squad", "players", len(players))
	return nil
}

func (s *store) GetPlayer(playerID string) (*football.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := scanPlayer(s.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE id = ?", playerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", playerID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPlayers retrieves the players with the given ids; unknown ids are skipped.
func (s *store) GetPlayers(playerIDs []string) ([]football.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID, err := loadPlayers(s.db, playerIDs)
	if err != nil {
		return nil, err
	}
	players := make([]football.Player, 0, len(byID))
	for _, id := range playerIDs {
		if p, ok := byID[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

func loadPlayers(q querier, playerIDs []string) (map[string]football.Player, error) {
	players := make(map[string]football.Player, len(playerIDs))
	if len(playerIDs) == 0 {
		return players, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(playerIDs)), ",")
	rows, err := q.Query("SELECT "+playerColumns+" FROM players WHERE id IN ("+placeholders+")", ToAnySlice(playerIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players[p.ID] = p
	}
	return players, rows.Err()
}

func (s *store) GetAllPlayers() ([]football.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT " + playerColumns + " FROM players ORDER BY name")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []football.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

// GetPlayerStats returns the leaderboard, best rated first.
func (s *store) GetPlayerStats() ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT ` + playerColumns + `
		FROM players
		ORDER BY rating DESC, total_goals DESC, total_assists DESC, name ASC;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []PlayerStats
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, statsFor(p))
	}
	return stats, rows.Err()
}

// GetPlayerStatsByName retrieves the statistics for a single player by their name.
// It performs a case-insensitive, fuzzy search (e.g., "bruno" will match "Bruno Alves").
func (s *store) GetPlayerStatsByName(playerName string) (*PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + playerName + "%"
	p, err := scanPlayer(s.db.QueryRow(`
		SELECT `+playerColumns+`
		FROM players
		WHERE name LIKE ? COLLATE NOCASE
		ORDER BY name
		LIMIT 1
	`, pattern))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("No stats found for player matching pattern", "pattern", pattern)
			return nil, fmt.Errorf("player matching '%s': %w", playerName, ErrNotFound)
		}
		log.Error("Failed to query player stats by name", "error", err, "pattern", pattern)
		return nil, fmt.Errorf("database error: %w", err)
	}

	stat := statsFor(p)
	log.Debug("Found player stats by name", "player", stat.PlayerName)
	return &stat, nil
}

func statsFor(p football.Player) PlayerStats {
	stat := PlayerStats{
		PlayerID:      p.ID,
		PlayerName:    p.Name,
		Position:      p.Position,
		MatchesPlayed: p.MatchesPlayed,
		TotalGoals:    p.TotalGoals,
		TotalAssists:  p.TotalAssists,
		TotalSaves:    p.TotalSaves,
		CleanSheets:   p.CleanSheets,
		Rating:        p.Rating,
	}
	if p.MatchesPlayed > 0 {
		stat.GoalsPerMatch = float64(p.TotalGoals) / float64(p.MatchesPlayed)
	}
	return stat
}

// CreateMatch stores a provisional match: rosters only, no score and no
// stat effects.
func (s *store) CreateMatch(match *football.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateRosters(match); err != nil {
		return err
	}
	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.CreatedAt == 0 {
		match.CreatedAt = time.Now().Unix()
	}
	match.ScoreA, match.ScoreB = 0, 0
	match.Goals = nil
	match.Saves = map[string]int{}
	match.Completed = false
	match.StatsApplied = false
	match.ProcessingStatus = football.StatusNew

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	known, err := loadPlayers(tx, match.Participants())
	if err != nil {
		tx.Rollback()
		return err
	}
	for _, id := range match.Participants() {
		if _, ok := known[id]; !ok {
			tx.Rollback()
			return fmt.Errorf("%w: unknown player %s", ErrInvalidMatch, id)
		}
	}
	_, err = tx.Exec(`
		INSERT INTO matches (id, score_a, score_b, completed, stats_applied, processing_status, played_at, created_at)
		VALUES (?, 0, 0, 0, 0, ?, ?, ?)`,
		match.ID, match.ProcessingStatus, match.PlayedAt, match.CreatedAt)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert match: %w", err)
	}

	for _, team := range []football.TeamLabel{football.TeamA, football.TeamB} {
		for slot, playerID := range match.Roster(team) {
			_, err := tx.Exec(`INSERT INTO match_players (match_id, player_id, team, slot) VALUES (?, ?, ?, ?)`,
				match.ID, playerID, team, slot)
			if err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to add player %s to match: %w", playerID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Created match", "matchID", match.ID, "teamA", len(match.TeamA), "teamB", len(match.TeamB))
	return nil
}

func validateRosters(match *football.Match) error {
	if len(match.TeamA) == 0 || len(match.TeamB) == 0 {
		return fmt.Errorf("%w: both teams need at least one player", ErrInvalidMatch)
	}
	seen := make(map[string]bool, len(match.TeamA)+len(match.TeamB))
	for _, id := range match.Participants() {
		if seen[id] {
			return fmt.Errorf("%w: player %s is rostered twice", ErrInvalidMatch, id)
		}
		seen[id] = true
	}
	return nil
}

// RecordResult completes a provisional match. Scores, goal events and saves
// are written together; the match never ends up half completed.
func (s *store) RecordResult(matchID string, result Result) (*football.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := loadMatch(tx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Completed {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrAlreadyCompleted)
	}
	if err := validateResult(match, &result); err != nil {
		return nil, err
	}
	if result.PlayedAt == 0 {
		result.PlayedAt = time.Now().Unix()
	}

	_, err = tx.Exec(`
		UPDATE matches SET score_a = ?, score_b = ?, completed = 1, processing_status = ?, played_at = ?
		WHERE id = ?`,
		result.ScoreA, result.ScoreB, football.StatusResultAvailable, result.PlayedAt, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to update match score: %w", err)
	}

	for i := range result.Goals {
		g := &result.Goals[i]
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		var assister any
		if g.AssisterID != "" {
			assister = g.AssisterID
		}
		_, err := tx.Exec(`
			INSERT INTO goals (id, match_id, scorer_id, assister_id, team, own_goal, minute)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			g.ID, matchID, g.ScorerID, assister, g.Team, g.OwnGoal, g.Minute)
		if err != nil {
			return nil, fmt.Errorf("failed to insert goal: %w", err)
		}
	}

	for playerID, count := range result.Saves {
		if count <= 0 {
			continue
		}
		_, err := tx.Exec(`INSERT INTO saves (match_id, player_id, count) VALUES (?, ?, ?)`, matchID, playerID, count)
		if err != nil {
			return nil, fmt.Errorf("failed to insert saves: %w", err)
		}
	}

	completed, err := loadMatch(tx, matchID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info("Recorded match result", "matchID", matchID, "scoreA", result.ScoreA, "scoreB", result.ScoreB, "goals", len(result.Goals))
	return completed, nil
}

func validateResult(match *football.Match, result *Result) error {
	if result.ScoreA < 0 || result.ScoreB < 0 {
		return fmt.Errorf("%w: negative score", ErrInvalidMatch)
	}
	for _, g := range result.Goals {
		team, ok := match.TeamOf(g.ScorerID)
		if !ok {
			return fmt.Errorf("%w: scorer %s is not rostered", ErrInvalidMatch, g.ScorerID)
		}
		if g.Team == "" {
			return fmt.Errorf("%w: goal by %s has no team", ErrInvalidMatch, g.ScorerID)
		}
		if team != g.Team {
			return fmt.Errorf("%w: scorer %s does not play for team %s", ErrInvalidMatch, g.ScorerID, g.Team)
		}
		if g.AssisterID != "" {
			if _, ok := match.TeamOf(g.AssisterID); !ok {
				return fmt.Errorf("%w: assister %s is not rostered", ErrInvalidMatch, g.AssisterID)
			}
		}
	}
	for playerID, count := range result.Saves {
		if _, ok := match.TeamOf(playerID); !ok {
			return fmt.Errorf("%w: saves recorded for unrostered player %s", ErrInvalidMatch, playerID)
		}
		if count < 0 {
			return fmt.Errorf("%w: negative saves for %s", ErrInvalidMatch, playerID)
		}
	}
	if len(result.Goals) > 0 {
		scoreA, scoreB := rating.EffectiveScore(result.Goals)
		if (result.ScoreA != 0 || result.ScoreB != 0) && (result.ScoreA != scoreA || result.ScoreB != scoreB) {
			return fmt.Errorf("%w: score %d-%d does not match goal events %d-%d", ErrInvalidMatch, result.ScoreA, result.ScoreB, scoreA, scoreB)
		}
		result.ScoreA, result.ScoreB = scoreA, scoreB
	}
	return nil
}

func (s *store) GetMatch(matchID string) (*football.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return loadMatch(s.db, matchID)
}

// GetAllMatches retrieves all matches, most recently played first.
func (s *store) GetAllMatches() ([]*football.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadMatches("SELECT id FROM matches ORDER BY played_at DESC, created_at DESC")
}

// GetMatchesForProcessing retrieves completed matches that have not yet
// reached the end of the result pipeline.
func (s *store) GetMatchesForProcessing() ([]*football.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadMatches("SELECT id FROM matches WHERE completed = 1 AND processing_status != ? ORDER BY played_at ASC", football.StatusCompleted)
}

func (s *store) loadMatches(query string, args ...any) ([]*football.Match, error) {
	// Collect ids first so no result set is open while children are loaded.
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query matches", "error", err)
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	matches := make([]*football.Match, 0, len(ids))
	for _, id := range ids {
		match, err := loadMatch(s.db, id)
		if err != nil {
			log.Error("Failed to load match", "error", err, "matchID", id)
			continue
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func loadMatch(q querier, matchID string) (*football.Match, error) {
	match := &football.Match{ID: matchID, Saves: map[string]int{}}
	err := q.QueryRow(`
		SELECT score_a, score_b, completed, stats_applied, processing_status, played_at, created_at
		FROM matches WHERE id = ?`, matchID).Scan(
		&match.ScoreA, &match.ScoreB, &match.Completed, &match.StatsApplied,
		&match.ProcessingStatus, &match.PlayedAt, &match.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(`SELECT player_id, team FROM match_players WHERE match_id = ? ORDER BY team, slot`, matchID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var playerID string
		var team football.TeamLabel
		if err := rows.Scan(&playerID, &team); err != nil {
			rows.Close()
			return nil, err
		}
		if team == football.TeamA {
			match.TeamA = append(match.TeamA, playerID)
		} else {
			match.TeamB = append(match.TeamB, playerID)
		}
	}
	rows.Close()

	rows, err = q.Query(`SELECT id, scorer_id, assister_id, team, own_goal, minute FROM goals WHERE match_id = ? ORDER BY minute, rowid`, matchID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var g football.Goal
		var assister sql.NullString
		if err := rows.Scan(&g.ID, &g.ScorerID, &assister, &g.Team, &g.OwnGoal, &g.Minute); err != nil {
			rows.Close()
			return nil, err
		}
		g.AssisterID = assister.String
		match.Goals = append(match.Goals, g)
	}
	rows.Close()

	rows, err = q.Query(`SELECT player_id, count FROM saves WHERE match_id = ?`, matchID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var playerID string
		var count int
		if err := rows.Scan(&playerID, &count); err != nil {
			rows.Close()
			return nil, err
		}
		match.Saves[playerID] = count
	}
	rows.Close()
	return match, rows.Err()
}

// UpdateProcessingStatus transitions a match to a new state.
func (s *store) UpdateProcessingStatus(matchID string, status football.ProcessingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE matches SET processing_status = ? WHERE id = ?", status, matchID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	return nil
}

// ApplyMatchStats acquires a lock and folds the match inside one transaction.
func (s *store) ApplyMatchStats(matchID string) ([]rating.Fold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := loadMatch(tx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Completed {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrNotCompleted)
	}
	if match.StatsApplied {
		log.Debug("Player stats already applied", "matchID", matchID)
		return nil, nil
	}

	folds, err := s.foldLocked(tx, match, true)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec("UPDATE matches SET stats_applied = 1 WHERE id = ?", matchID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit player stats transaction", "error", err, "matchID", matchID)
		return nil, err
	}
	log.Info("Applied player stats", "matchID", matchID, "players", len(folds))
	return folds, nil
}

// ReverseMatchStats acquires a lock and reverses the fold inside one transaction.
func (s *store) ReverseMatchStats(matchID string) ([]rating.Fold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	folds, err := s.reverseLocked(tx, matchID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return folds, nil
}

func (s *store) reverseLocked(tx *sql.Tx, matchID string) ([]rating.Fold, error) {
	match, err := loadMatch(tx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.StatsApplied {
		log.Debug("No player stats to reverse", "matchID", matchID)
		return nil, nil
	}
	folds, err := s.foldLocked(tx, match, false)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec("UPDATE matches SET stats_applied = 0 WHERE id = ?", matchID); err != nil {
		return nil, err
	}
	log.Info("Reversed player stats", "matchID", matchID, "players", len(folds))
	return folds, nil
}

func (s *store) foldLocked(tx *sql.Tx, match *football.Match, apply bool) ([]rating.Fold, error) {
	players, err := loadPlayers(tx, match.Participants())
	if err != nil {
		return nil, err
	}

	var folds []rating.Fold
	if apply {
		folds, err = s.policy.ApplyMatch(match, players)
	} else {
		var applied map[string]rating.Delta
		if applied, err = loadAppliedStats(tx, match.ID); err == nil {
			folds, err = s.policy.ReverseMatch(match, players, applied)
		}
	}
	if err != nil {
		log.Error("Failed to fold match into player stats", "error", err, "matchID", match.ID)
		return nil, err
	}

	stmt, err := tx.Prepare(`
		UPDATE players SET
			matches_played = ?,
			total_goals = ?,
			total_assists = ?,
			total_saves = ?,
			clean_sheets = ?,
			rating = ?
		WHERE id = ?;
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, f := range folds {
		p := f.After
		if _, err := stmt.Exec(p.MatchesPlayed, p.TotalGoals, p.TotalAssists, p.TotalSaves, p.CleanSheets, p.Rating, p.ID); err != nil {
			log.Error("Failed to update player stats", "error", err, "playerID", p.ID, "matchID", match.ID)
			return nil, fmt.Errorf("failed to update player %s: %w", p.ID, err)
		}
		log.Debug("Updated player stats", "playerID", p.ID, "matchRating", f.Rating, "rating", p.Rating)
	}

	if apply {
		err = recordAppliedStats(tx, match.ID, folds)
	} else {
		_, err = tx.Exec("DELETE FROM match_stats WHERE match_id = ?", match.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update applied stats for match %s: %w", match.ID, err)
	}
	return folds, nil
}

// recordAppliedStats keeps the delta each player received so a reversal
// takes back exactly that, whatever the player's record looks like later.
func recordAppliedStats(tx *sql.Tx, matchID string, folds []rating.Fold) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO match_stats (match_id, player_id, goals, assists, saves, clean_sheet, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, f := range folds {
		d := f.Delta
		if _, err := stmt.Exec(matchID, f.Before.ID, d.Goals, d.Assists, d.Saves, d.CleanSheet, f.Before.Position); err != nil {
			return err
		}
	}
	return nil
}

func loadAppliedStats(q querier, matchID string) (map[string]rating.Delta, error) {
	rows, err := q.Query(`SELECT player_id, goals, assists, saves, clean_sheet FROM match_stats WHERE match_id = ?`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load applied stats: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]rating.Delta)
	for rows.Next() {
		var id string
		var d rating.Delta
		if err := rows.Scan(&id, &d.Goals, &d.Assists, &d.Saves, &d.CleanSheet); err != nil {
			return nil, err
		}
		applied[id] = d
	}
	return applied, rows.Err()
}

// DeleteMatch removes a match, taking its stats back out of the players'
// records first when they were applied.
func (s *store) DeleteMatch(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := s.reverseLocked(tx, matchID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM matches WHERE id = ?", matchID); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Deleted match", "matchID", matchID)
	return nil
}

func ToAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
