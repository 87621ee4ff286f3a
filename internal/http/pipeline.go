package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/club"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/simulation"
)

func (s *Server) ProcessMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting match processing...")
		s.Processor.ProcessMatches(isDryRunFromContext(r))

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Match processing completed.")
		log.Info("Match processing finished.")
	}
}

// UpdatePlayerStatsHandler is the push endpoint for the stats topic. A
// message about a match that no longer exists is acknowledged so Pub/Sub
// stops redelivering it; other failures ask for a retry.
func (s *Server) UpdatePlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received update player stats message", "body", string(bodyBytes))

		var envelope pushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var event pubsub.MatchEvent
		if err := s.decodeEvent(rawData, &event); err != nil || event.MatchID == "" {
			log.Error("Failed to decode match event", "error", err, "messageID", envelope.Message.ID)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		dryRun := isDryRunFromContext(r) || event.DryRun
		if err := s.Processor.UpdatePlayerStats(event.MatchID, dryRun); err != nil {
			if errors.Is(err, club.ErrNotFound) {
				log.Warn("Dropping stats update for unknown match", "matchID", event.MatchID)
				w.Write([]byte("OK"))
				return
			}
			log.Error("Failed to update player stats", "error", err, "matchID", event.MatchID)
			http.Error(w, "Failed to update player stats", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) decodeEvent(data []byte, v any) error {
	if s.pubsub == nil {
		return pubsub.Decode(data, v)
	}
	return s.pubsub.ProcessMessage(data, v)
}

func (s *Server) AnnounceLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Processor.AnnounceLeaderboard(isDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce leaderboard", "error", err)
			http.Error(w, "Failed to announce leaderboard", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Leaderboard announced.")
	}
}

// SimulateHandler plays a friendly between the given players, or the whole
// squad when none are named. With save set the result is stored as a
// regular match and goes through the processing pipeline.
func (s *Server) SimulateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req simulateRequest
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		var players []football.Player
		var err error
		if len(req.PlayerIDs) > 0 {
			players, err = s.Store.GetPlayers(req.PlayerIDs)
		} else {
			players, err = s.Store.GetAllPlayers()
		}
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to load players for simulation", "error", err)
			return
		}

		result, err := s.Simulator.Simulate(players, req.Options)
		if errors.Is(err, simulation.ErrNotEnoughPlayers) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, "Failed to simulate match", http.StatusInternalServerError)
			log.Error("Failed to simulate match", "error", err)
			return
		}

		if req.Save && !isDryRunFromContext(r) {
			saved, err := s.saveSimulation(result.Match)
			if err != nil {
				respondWithStoreError(w, "Failed to save simulated match", err)
				return
			}
			result.Match = saved
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) saveSimulation(m *football.Match) (*football.Match, error) {
	provisional := &football.Match{ID: m.ID, TeamA: m.TeamA, TeamB: m.TeamB, PlayedAt: m.PlayedAt}
	if err := s.Store.CreateMatch(provisional); err != nil {
		return nil, err
	}
	return s.Store.RecordResult(m.ID, club.Result{
		Goals:    m.Goals,
		Saves:    m.Saves,
		PlayedAt: m.PlayedAt,
	})
}
