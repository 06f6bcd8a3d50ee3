package config

import (
	"fmt"
	"time"
)

// FixturesConfig controls the seed data contract around a run
type FixturesConfig struct {
	Seed          bool
	Preflight     bool
	Cleanup       bool
	APITimeout    time.Duration
	ProductPrefix string
}

// LoadFixturesConfig loads fixture settings from environment variables.
// Seeding is off by default because the storefront's seed endpoint wipes its store.
func LoadFixturesConfig(getenv func(string) string) (*FixturesConfig, error) {
	cfg := &FixturesConfig{
		ProductPrefix: stringOr(getenv, "FIXTURES_PRODUCT_PREFIX", "Selenium Test Bag"),
	}

	var err error
	if cfg.Seed, err = boolOr(getenv, "FIXTURES_SEED", false); err != nil {
		return nil, err
	}
	if cfg.Preflight, err = boolOr(getenv, "FIXTURES_PREFLIGHT", true); err != nil {
		return nil, err
	}
	if cfg.Cleanup, err = boolOr(getenv, "FIXTURES_CLEANUP", true); err != nil {
		return nil, err
	}
	if cfg.APITimeout, err = durationOr(getenv, "FIXTURES_API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.APITimeout == 0 {
		return nil, fmt.Errorf("FIXTURES_API_TIMEOUT must be positive")
	}

	return cfg, nil
}
