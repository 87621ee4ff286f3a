package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "touchline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(FileEnv, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.ProcessInterval)
	assert.Equal(t, 5*time.Minute, cfg.Offline.APITTL)
	assert.Equal(t, "/rest/v1/", cfg.Offline.ReadPath)
	assert.Equal(t, []string{"/", "/index.html", "/manifest.json"}, cfg.Offline.Manifest)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfigFile(t, `
port: "9000"
process_interval: 30s
slack:
  channel_id: C-FILE
offline:
  store: sql
  api_ttl: 2m
  manifest:
    - /
    - /app.css
`)
	t.Setenv(FileEnv, path)
	t.Setenv("TOUCHLINE_PORT", "9100")
	t.Setenv("TOUCHLINE_SLACK__TOKEN", "xoxb-env")
	t.Setenv("TOUCHLINE_OFFLINE__ORIGIN", "https://touchline.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port, "env wins over file")
	assert.Equal(t, 30*time.Second, cfg.ProcessInterval)
	assert.Equal(t, "C-FILE", cfg.Slack.ChannelID)
	assert.Equal(t, "xoxb-env", cfg.Slack.Token)
	assert.Equal(t, "sql", cfg.Offline.Store)
	assert.Equal(t, 2*time.Minute, cfg.Offline.APITTL)
	assert.Equal(t, []string{"/", "/app.css"}, cfg.Offline.Manifest)
	assert.Equal(t, "https://touchline.example", cfg.Offline.Origin)
	assert.Equal(t, "/offline.html", cfg.Offline.OfflineURL, "untouched nested defaults survive")
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv(FileEnv, filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown offline store", func(t *testing.T) {
		t.Setenv(FileEnv, "")
		t.Setenv("TOUCHLINE_OFFLINE__STORE", "redis")
		_, err := Load()
		assert.ErrorContains(t, err, "offline.store")
	})

	t.Run("turso url without token", func(t *testing.T) {
		t.Setenv(FileEnv, "")
		t.Setenv("TOUCHLINE_TURSO__PRIMARY_URL", "libsql://db.turso.io")
		_, err := Load()
		assert.ErrorContains(t, err, "auth_token")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, Config{LogLevel: "debug"}.ParseLevel())
	assert.Equal(t, log.InfoLevel, Config{LogLevel: "loud"}.ParseLevel())
}
