package offline

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config carries everything the controller would otherwise hard-code.
type Config struct {
	// APITTL is the freshness window for cached remote-data reads.
	APITTL time.Duration
	// APIHost is the remote-data provider's domain. Subdomains match too.
	APIHost string
	// ReadPath is the path segment marking read-style API calls.
	ReadPath string
	// Manifest lists the origin paths precached at install.
	Manifest []string
	// OfflineURL is the fallback page served to failed navigations.
	OfflineURL string
	// Prefix namespaces the cache names owned by this app.
	Prefix string
	// Version qualifies the current cache names.
	Version string
	// Origin is the app origin that relative requests resolve against.
	Origin string
}

const (
	DefaultAPITTL     = 5 * time.Minute
	DefaultReadPath   = "/rest/v1/"
	DefaultOfflineURL = "/offline.html"
	DefaultPrefix     = "touchline"
	DefaultVersion    = "v1"

	// TimestampHeader carries the unix millisecond store time of an API entry.
	TimestampHeader = "X-Cache-Timestamp"
)

// DefaultConfig returns the settings the edge ships with.
func DefaultConfig() Config {
	return Config{
		APITTL:     DefaultAPITTL,
		APIHost:    "supabase.co",
		ReadPath:   DefaultReadPath,
		Manifest:   []string{"/", "/index.html", "/manifest.json"},
		OfflineURL: DefaultOfflineURL,
		Prefix:     DefaultPrefix,
		Version:    DefaultVersion,
		Origin:     "http://localhost:8080",
	}
}

// CoreCacheName is the store for static assets and pages.
func (c Config) CoreCacheName() string {
	return fmt.Sprintf("%s-core-%s", c.Prefix, c.Version)
}

// APICacheName is the store for time-boxed remote-data reads.
func (c Config) APICacheName() string {
	return fmt.Sprintf("%s-api-%s", c.Prefix, c.Version)
}

func (c Config) validate() (*url.URL, error) {
	if c.Prefix == "" || c.Version == "" {
		return nil, errors.New("cache prefix and version are required")
	}
	if c.APITTL <= 0 {
		return nil, errors.New("api cache ttl must be positive")
	}
	if c.OfflineURL == "" {
		return nil, errors.New("offline fallback url is required")
	}
	origin, err := url.Parse(c.Origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", c.Origin, err)
	}
	if !origin.IsAbs() {
		return nil, fmt.Errorf("origin %q must be absolute", c.Origin)
	}
	return origin, nil
}
