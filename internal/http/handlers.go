package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/club"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/mauv0809/touchline/internal/rating"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) AddPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var player football.Player
		if err := decodeJSON(r, &player); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would add player", "name", player.Name, "position", player.Position)
			writeJSON(w, http.StatusOK, player)
			return
		}
		added, err := s.Store.AddPlayer(player)
		if err != nil {
			log.Warn("Failed to add player", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, added)
	}
}

// ImportPlayersHandler upserts a whole squad list. Known ids keep their
// counters and rating; only name and position change.
func (s *Server) ImportPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var players []football.Player
		if err := decodeJSON(r, &players); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would import players", "count", len(players))
			writeJSON(w, http.StatusOK, map[string]int{"imported": len(players)})
			return
		}
		if err := s.Store.UpsertPlayers(players); err != nil {
			respondWithStoreError(w, "Failed to import players", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"imported": len(players)})
	}
}

func (s *Server) GetPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := s.Store.GetPlayer(r.PathValue("id"))
		if err != nil {
			respondWithStoreError(w, "Failed to get player", err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

// PlayerStatsHandler looks a single player up by name.
func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}
		stats, err := s.Store.GetPlayerStatsByName(name)
		if err != nil {
			log.Warn("Could not find player stats", "player", name, "error", err)
			respondWithStoreError(w, "Failed to get player stats", err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.GetAllMatches()
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

// CreateMatchHandler schedules a provisional match from two rosters.
func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var match football.Match
		if err := decodeJSON(r, &match); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would create match", "teamA", len(match.TeamA), "teamB", len(match.TeamB))
			writeJSON(w, http.StatusOK, match)
			return
		}
		if err := s.Store.CreateMatch(&match); err != nil {
			respondWithStoreError(w, "Failed to create match", err)
			return
		}
		writeJSON(w, http.StatusCreated, match)
	}
}

// GetMatchHandler returns a match together with the rating of every rostered
// player.
func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := s.Store.GetMatch(r.PathValue("id"))
		if err != nil {
			respondWithStoreError(w, "Failed to get match", err)
			return
		}
		view := matchView{Match: match, Ratings: []rating.PlayerRating{}}
		if match.Completed {
			players, err := s.Store.GetPlayers(match.Participants())
			if err != nil {
				http.Error(w, "Failed to get players", http.StatusInternalServerError)
				log.Error("Failed to load match players", "error", err, "matchID", match.ID)
				return
			}
			lookup := make(map[string]football.Player, len(players))
			for _, p := range players {
				lookup[p.ID] = p
			}
			view.Ratings = s.policy.RateMatch(match, lookup)
			if best, ok := rating.Best(view.Ratings); ok {
				view.Best = &best
			}
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) RecordResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.PathValue("id")
		var result club.Result
		if err := decodeJSON(r, &result); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would record result", "matchID", matchID, "goals", len(result.Goals))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run, result not recorded.")
			return
		}
		match, err := s.Store.RecordResult(matchID, result)
		if err != nil {
			respondWithStoreError(w, "Failed to record result", err)
			return
		}
		log.Info("Recorded match result", "matchID", matchID, "scoreA", match.ScoreA, "scoreB", match.ScoreB)
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.PathValue("id")
		if err := s.Processor.RemoveMatch(matchID, isDryRunFromContext(r)); err != nil {
			respondWithStoreError(w, "Failed to delete match", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Deleted match %s.\n", matchID)
	}
}

// LeaderboardHandler returns a handler that serves the player statistics leaderboard.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Store.GetPlayerStats()
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats from store", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// respondWithStoreError maps the store's sentinel errors onto status codes.
func respondWithStoreError(w http.ResponseWriter, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, club.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, club.ErrInvalidMatch), errors.Is(err, club.ErrInvalidPlayer), errors.Is(err, rating.ErrPlayerNotInMatch):
		status = http.StatusBadRequest
	case errors.Is(err, club.ErrAlreadyCompleted), errors.Is(err, club.ErrNotCompleted):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Error(msg, "error", err)
		http.Error(w, msg, status)
		return
	}
	log.Warn(msg, "error", err)
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), status)
}
