package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mauv0809/touchline/internal/football"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSquad(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSquad(t *testing.T) {
	t.Run("yaml with short and long position names", func(t *testing.T) {
		path := writeSquad(t, "squad.yaml", `
players:
  - id: bruno
    name: Bruno Alves
    position: DEF
  - id: ana
    name: Ana Costa
    position: goalkeeper
`)
		players, err := loadSquad(path)
		require.NoError(t, err)
		assert.Equal(t, []football.Player{
			{ID: "bruno", Name: "Bruno Alves", Position: football.Defender},
			{ID: "ana", Name: "Ana Costa", Position: football.Goalkeeper},
		}, players)
	})

	t.Run("json", func(t *testing.T) {
		path := writeSquad(t, "squad.json", `{"players":[{"id":"rui","name":"Rui","position":"FWD"}]}`)
		players, err := loadSquad(path)
		require.NoError(t, err)
		require.Len(t, players, 1)
		assert.Equal(t, football.Forward, players[0].Position)
	})

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown position", content: "players:\n  - id: x\n    name: X\n    position: LIBERO\n"},
		{name: "missing id", content: "players:\n  - name: X\n    position: MID\n"},
		{name: "duplicate id", content: "players:\n  - id: x\n    name: X\n    position: MID\n  - id: x\n    name: Y\n    position: DEF\n"},
		{name: "no players", content: "players: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSquad(writeSquad(t, "squad.yaml", tt.content))
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := loadSquad(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
