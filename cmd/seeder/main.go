package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/touchline/internal/club"
	"github.com/mauv0809/touchline/internal/config"
	"github.com/mauv0809/touchline/internal/database"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/rating"
	"github.com/mauv0809/touchline/internal/simulation"
)

const (
	squadSize  = 14
	numMatches = 40
)

var positions = []football.Position{
	football.Goalkeeper, football.Defender, football.Defender, football.Defender,
	football.Midfielder, football.Midfielder, football.Forward,
}

func main() {
	log.Info("Starting database seeder...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer dbTeardown()
	store := club.New(db)

	squad := make([]football.Player, 0, squadSize)
	for i := 0; i < squadSize; i++ {
		player, err := store.AddPlayer(football.Player{
			ID:       uuid.NewString(),
			Name:     fmt.Sprintf("Seeder Player %c", 'A'+i),
			Position: positions[i%len(positions)],
		})
		if err != nil {
			log.Fatalf("Failed to insert player: %s", err)
		}
		squad = append(squad, player)
	}
	log.Info("Seeded squad", "players", len(squad))

	sim := simulation.New(rating.DefaultPolicy())
	startTime := time.Now()
	for i := 0; i < numMatches; i++ {
		playedAt := startTime.AddDate(0, 0, -7*(numMatches-i))
		result, err := sim.Simulate(squad, simulation.Options{Seed: int64(i + 1), PlayedAt: playedAt.Unix()})
		if err != nil {
			log.Fatalf("Failed to simulate match: %s", err)
		}
		m := result.Match
		if err := store.CreateMatch(&football.Match{ID: m.ID, TeamA: m.TeamA, TeamB: m.TeamB, PlayedAt: m.PlayedAt}); err != nil {
			log.Fatalf("Failed to create match: %s", err)
		}
		if _, err := store.RecordResult(m.ID, club.Result{Goals: m.Goals, Saves: m.Saves, PlayedAt: m.PlayedAt}); err != nil {
			log.Fatalf("Failed to record result: %s", err)
		}
		// Old fixtures skip the notification step, so fold their stats here.
		if _, err := store.ApplyMatchStats(m.ID); err != nil {
			log.Fatalf("Failed to apply stats: %s", err)
		}
		if err := store.UpdateProcessingStatus(m.ID, football.StatusCompleted); err != nil {
			log.Fatalf("Failed to complete match: %s", err)
		}
		log.Debug("Seeded match", "matchID", m.ID, "scoreA", m.ScoreA, "scoreB", m.ScoreB)
	}

	log.Info("Successfully seeded matches.", "total", numMatches, "duration", time.Since(startTime))
}
