// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken  string        `env:"DEVFINDER_GITHUB_TOKEN"`
	DefaultUser  string        `env:"DEVFINDER_DEFAULT_USER" envDefault:"octocat"`
	ListenAddr   string        `env:"DEVFINDER_LISTEN_ADDR" envDefault:"127.0.0.1:8080"`
	LoadingDelay time.Duration `env:"DEVFINDER_LOADING_DELAY" envDefault:"3s"`
	ViewTTL      time.Duration `env:"DEVFINDER_VIEW_TTL" envDefault:"15m"`
}

// HasGitHubToken returns true when a GitHub token is configured. Used by the
// composition root to decide between the GraphQL source and the anonymous
// REST source.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. DEVFINDER_GITHUB_TOKEN is optional; without it profile fetches fall
// back to the anonymous REST API and its lower rate limits. Optional variables
// with defaults: DEVFINDER_DEFAULT_USER (octocat), DEVFINDER_LISTEN_ADDR
// (127.0.0.1:8080), DEVFINDER_LOADING_DELAY (3s), DEVFINDER_VIEW_TTL (15m).
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.DefaultUser == "" {
		return nil, fmt.Errorf("DEVFINDER_DEFAULT_USER must not be empty")
	}
	if cfg.LoadingDelay <= 0 {
		return nil, fmt.Errorf("DEVFINDER_LOADING_DELAY must be positive, got %s", cfg.LoadingDelay)
	}
	if cfg.ViewTTL <= 0 {
		return nil, fmt.Errorf("DEVFINDER_VIEW_TTL must be positive, got %s", cfg.ViewTTL)
	}

	return &cfg, nil
}
