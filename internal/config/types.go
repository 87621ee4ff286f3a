package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	Port            string        `koanf:"port"`
	LogLevel        string        `koanf:"log_level"`
	DBName          string        `koanf:"db_name"`
	ProjectID       string        `koanf:"gcp_project"`
	ProcessInterval time.Duration `koanf:"process_interval"`
	Slack           SlackConfig   `koanf:"slack"`
	Turso           TursoConfig   `koanf:"turso"`
	Offline         OfflineConfig `koanf:"offline"`
}

type SlackConfig struct {
	Token     string `koanf:"token"`
	ChannelID string `koanf:"channel_id"`
}

type TursoConfig struct {
	PrimaryURL string `koanf:"primary_url"`
	AuthToken  string `koanf:"auth_token"`
}

// OfflineConfig configures the edge cache binary.
type OfflineConfig struct {
	Listen     string        `koanf:"listen"`
	Store      string        `koanf:"store"`
	APITTL     time.Duration `koanf:"api_ttl"`
	APIHost    string        `koanf:"api_host"`
	ReadPath   string        `koanf:"read_path"`
	Manifest   []string      `koanf:"manifest"`
	OfflineURL string        `koanf:"offline_url"`
	Prefix     string        `koanf:"prefix"`
	Version    string        `koanf:"version"`
	Origin     string        `koanf:"origin"`
}
