package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment knobs read before koanf runs.
const (
	envPrefix   = "SUMMITGAP_"
	envConfig   = "SUMMITGAP_CONFIG"
	envDotEnv   = "SUMMITGAP_ENV_FILE"
	defaultDotE = ".env"
)

// Load builds a Config by layering defaults, .env, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SUMMITGAP_CONFIG is set
//  3. env (prefix SUMMITGAP_), including values loaded from .env
//
// The .env file (SUMMITGAP_ENV_FILE, default ".env") never overrides
// variables already present in the process environment.
func Load(_ context.Context) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SUMMITGAP_CACHE_TTL_S -> cache_ttl_s (flat keys, underscores kept).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv() error {
	path, explicit := os.LookupEnv(envDotEnv)
	if !explicit {
		path = defaultDotE
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}
	return nil
}

// Validate checks the fields the dashboard cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.UserID) == "":
		return fmt.Errorf("%w: user_id must not be empty", ErrInvalidConfig)
	case strings.Trim(c.Region, "/ ") == "":
		return fmt.Errorf("%w: region must not be empty", ErrInvalidConfig)
	case c.HTTPTimeoutMS <= 0:
		return fmt.Errorf("%w: http_timeout_ms must be positive", ErrInvalidConfig)
	case c.CacheTTLSeconds < 0:
		return fmt.Errorf("%w: cache_ttl_s must not be negative", ErrInvalidConfig)
	}
	for key, raw := range map[string]string{
		"completes_url": c.CompletesURL,
		"summits_url":   c.SummitsURL,
		"s2s_url":       c.S2SURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %s must be an absolute http(s) URL", ErrInvalidConfig, key)
		}
	}
	return nil
}
