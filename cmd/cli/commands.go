package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mauv0809/touchline/internal/football"
	"github.com/spf13/cobra"
)

func init() {
	playersAddCmd.Flags().String("name", "", "Player name")
	playersAddCmd.Flags().String("position", "", "GK, DEF, MID or FWD, or the full role name")
	playersCmd.AddCommand(playersAddCmd)
	playersCmd.AddCommand(playersImportCmd)

	leaderboardCmd.Flags().Bool("announce", false, "Post the leaderboard to Slack")

	simulateCmd.Flags().Int64("seed", 0, "Seed for a reproducible match")
	simulateCmd.Flags().StringSlice("players", nil, "Player ids to pick from, defaults to the whole squad")
	simulateCmd.Flags().Bool("save", false, "Store the simulated match")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(deleteMatchCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(cachesCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, host, "/health", nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players [id]",
	Short: "List the squad, or show one player",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performRequest(http.MethodGet, host, "/api/players/"+url.PathEscape(args[0]), nil)
		}
		return performRequest(http.MethodGet, host, "/api/players", nil)
	},
}

var playersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a player to the squad",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		position, _ := cmd.Flags().GetString("position")
		if name == "" {
			return fmt.Errorf("--name is required")
		}
		pos, err := football.ParsePosition(position)
		if err != nil {
			return err
		}
		return performRequest(http.MethodPost, host, "/api/players", football.Player{Name: name, Position: pos})
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches [id]",
	Short: "List matches, or show one with its player ratings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performRequest(http.MethodGet, host, "/api/matches/"+url.PathEscape(args[0]), nil)
		}
		return performRequest(http.MethodGet, host, "/api/matches", nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the squad leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if announce, _ := cmd.Flags().GetBool("announce"); announce {
			return performRequest(http.MethodPost, host, "/api/leaderboard/announce", nil)
		}
		return performRequest(http.MethodGet, host, "/api/leaderboard", nil)
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the match processing pipeline once",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, host, "/process", nil)
	},
}

var deleteMatchCmd = &cobra.Command{
	Use:   "delete-match <id>",
	Short: "Delete a match and take its stats back out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, host, "/api/matches/"+url.PathEscape(args[0]), nil)
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a friendly between squad members",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetInt64("seed")
		players, _ := cmd.Flags().GetStringSlice("players")
		save, _ := cmd.Flags().GetBool("save")
		return performRequest(http.MethodPost, host, "/api/simulate", map[string]any{
			"player_ids": players,
			"options":    map[string]any{"seed": seed},
			"save":       save,
		})
	},
}

var cachesCmd = &cobra.Command{
	Use:   "caches",
	Short: "Show the offline edge state and its caches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, edge, "/_sw/caches", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, host, "/metrics", nil)
	},
}

func performRequest(method, base, endpoint string, body any) error {
	target, err := url.Parse(base + endpoint)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	query := target.Query()
	if dryRun {
		query.Set("dry_run", "true")
	}
	if verbose {
		query.Set("verbose", "true")
	}
	target.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))
	if resp.StatusCode >= 400 {
		return fmt.Errorf("server answered %s", resp.Status)
	}
	return nil
}
