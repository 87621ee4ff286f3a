package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "TOUCHLINE_"
	// FileEnv names the optional YAML config file.
	FileEnv = "TOUCHLINE_CONFIG"
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Port:            "8080",
		LogLevel:        "info",
		DBName:          "touchline.db",
		ProcessInterval: 10 * time.Minute,
		Offline: OfflineConfig{
			Listen:     ":8081",
			Store:      "memory",
			APITTL:     5 * time.Minute,
			APIHost:    "supabase.co",
			ReadPath:   "/rest/v1/",
			Manifest:   []string{"/", "/index.html", "/manifest.json"},
			OfflineURL: "/offline.html",
			Prefix:     "touchline",
			Version:    "v1",
			Origin:     "http://localhost:8080",
		},
	}
}

// Load builds a Config by layering, lowest precedence first:
//  1. defaults
//  2. a .env file, exported into the environment
//  3. the YAML file named by TOUCHLINE_CONFIG
//  4. TOUCHLINE_ environment variables, with a double underscore for nesting
//     (TOUCHLINE_SLACK__TOKEN sets slack.token)
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings every binary depends on.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.ProcessInterval <= 0 {
		return errors.New("process_interval must be positive")
	}
	if c.Turso.PrimaryURL != "" && c.Turso.AuthToken == "" {
		return errors.New("turso.auth_token is required with turso.primary_url")
	}
	switch c.Offline.Store {
	case "memory", "sql":
	default:
		return fmt.Errorf("offline.store must be memory or sql, got %q", c.Offline.Store)
	}
	return nil
}

// ParseLevel maps the configured log level onto charmbracelet/log, falling
// back to info.
func (c Config) ParseLevel() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
