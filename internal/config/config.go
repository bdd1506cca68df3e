// Package config defines process configuration and its layered loader.
//
// Conventions:
// - Defaults live in New; Load layers YAML file, .env and environment on top.
// - Endpoint URLs and the user identifier are configuration, never globals.
// - Errors are wrapped with this package's sentinels.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// UserID is the activator id used by the completes endpoints.
	UserID string `koanf:"user_id"`

	// Region is the association/region path, e.g. "GM/ES".
	Region string `koanf:"region"`

	// CompletesURL is the base of the completes endpoint; id, desc and year
	// query parameters are appended by the client.
	CompletesURL string `koanf:"completes_url"`

	// SummitsURL is the base of the region summits endpoint; the region path
	// is appended by the client.
	SummitsURL string `koanf:"summits_url"`

	// S2SURL is the base of the summit-to-summit completes endpoint.
	S2SURL string `koanf:"s2s_url"`

	// HTTPTimeoutMS bounds each upstream GET.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// CacheTTLSeconds enables memoization of upstream results when > 0.
	CacheTTLSeconds int `koanf:"cache_ttl_s"`

	// CacheSize caps memoized entries.
	CacheSize int `koanf:"cache_size"`

	// MapZoom is the initial zoom of the dashboard map.
	MapZoom int `koanf:"map_zoom"`

	// Title is the dashboard page title.
	Title string `koanf:"title"`

	// Tagline is printed under the missing-summits table.
	Tagline string `koanf:"tagline"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		UserID:          "46844",
		Region:          "GM/ES",
		CompletesURL:    "https://api-db.sota.org.uk/admin/sota_completes_by_id",
		SummitsURL:      "https://sotl.as/api/regions",
		S2SURL:          "https://api-db.sota.org.uk/admin/s2s_completes_by_id",
		HTTPTimeoutMS:   15_000,
		CacheTTLSeconds: 0,
		CacheSize:       16,
		MapZoom:         8,
		Title:           "wenseth complete",
		Tagline:         "Get cracking GM/ES boys!",
	}
}

// HTTPTimeout returns the upstream timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// CacheTTL returns the memo TTL; zero disables memoization.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
