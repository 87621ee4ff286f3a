package main

import (
	"fmt"
	"net/http"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mauv0809/touchline/internal/football"
	"github.com/spf13/cobra"
)

type squadEntry struct {
	ID       string `koanf:"id"`
	Name     string `koanf:"name"`
	Position string `koanf:"position"`
}

// loadSquad reads a squad list from a YAML or JSON file of the form
//
//	players:
//	  - id: bruno
//	    name: Bruno Alves
//	    position: DEF
func loadSquad(path string) ([]football.Player, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to read squad file %s: %w", path, err)
	}
	var entries []squadEntry
	if err := k.UnmarshalWithConf("players", &entries, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to parse squad file %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("squad file %s lists no players", path)
	}

	players := make([]football.Player, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("player %d (%s) has no id", i+1, e.Name)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("player %s is listed twice", e.ID)
		}
		seen[e.ID] = true
		pos, err := football.ParsePosition(e.Position)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", e.ID, err)
		}
		players = append(players, football.Player{ID: e.ID, Name: e.Name, Position: pos})
	}
	return players, nil
}

var playersImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create or update the squad from a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		players, err := loadSquad(args[0])
		if err != nil {
			return err
		}
		return performRequest(http.MethodPut, host, "/api/players", players)
	},
}
