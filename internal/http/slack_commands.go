package http

import (
	"net/http"

	"github.com/charmbracelet/log"
)

// LeaderboardCommandHandler answers the /leaderboard slash command in the
// channel it was typed in.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Store.GetPlayerStats()
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats from store", "error", err)
			return
		}
		msg, err := s.Notifier.FormatLeaderboardResponse(stats)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, msg)
	}
}

// PlayerStatsCommandHandler answers the /player-stats slash command. The
// command text is the player name to look up.
func (s *Server) PlayerStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		playerName := r.FormValue("text")
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}
		log.Info("Received player stats command", "player", playerName)

		stats, err := s.Store.GetPlayerStatsByName(playerName)
		if err != nil {
			respondWithStoreError(w, "Failed to get player stats", err)
			return
		}
		msg, err := s.Notifier.FormatPlayerStatsResponse(stats)
		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, msg)
	}
}

// AnnouncePlayerStatsHandler posts one player's record to the channel.
func (s *Server) AnnouncePlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}
		stats, err := s.Store.GetPlayerStatsByName(name)
		if err != nil {
			respondWithStoreError(w, "Failed to get player stats", err)
			return
		}
		if err := s.Notifier.SendPlayerStats(stats, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce player stats", "error", err, "player", stats.PlayerName)
			http.Error(w, "Failed to announce player stats", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
