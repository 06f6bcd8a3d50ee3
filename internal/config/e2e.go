package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Supported browser engines
const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// E2EConfig holds browser and synchronisation settings for a run
type E2EConfig struct {
	BaseURL         string
	Browser         string
	Headless        bool
	SlowMo          time.Duration
	ImplicitTimeout time.Duration
	WaitTimeout     time.Duration
	PollInterval    time.Duration
	SettleDelay     time.Duration
	Strict          bool
	InstallBrowsers bool
}

// LoadE2EConfig loads run configuration from environment variables
func LoadE2EConfig(getenv func(string) string) (*E2EConfig, error) {
	cfg := &E2EConfig{
		BaseURL: strings.TrimRight(stringOr(getenv, "BASE_URL", "http://localhost:3000"), "/"),
		Browser: strings.ToLower(stringOr(getenv, "BROWSER", BrowserFirefox)),
	}

	var err error
	if cfg.Headless, err = boolOr(getenv, "HEADLESS", true); err != nil {
		return nil, err
	}
	if cfg.Strict, err = boolOr(getenv, "STRICT", false); err != nil {
		return nil, err
	}
	if cfg.InstallBrowsers, err = boolOr(getenv, "PLAYWRIGHT_INSTALL", false); err != nil {
		return nil, err
	}
	if cfg.SlowMo, err = durationOr(getenv, "SLOW_MO", 0); err != nil {
		return nil, err
	}
	if cfg.ImplicitTimeout, err = durationOr(getenv, "IMPLICIT_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.WaitTimeout, err = durationOr(getenv, "WAIT_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = durationOr(getenv, "POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.SettleDelay, err = durationOr(getenv, "SETTLE_DELAY", 2*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that flags may have overridden
func (c *E2EConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BASE_URL must be an absolute http(s) URL, got %q", c.BaseURL)
	}

	switch c.Browser {
	case BrowserChromium, BrowserFirefox, BrowserWebKit:
	default:
		return fmt.Errorf("BROWSER must be one of chromium, firefox, webkit, got %q", c.Browser)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("WAIT_TIMEOUT must be positive")
	}
	if c.ImplicitTimeout <= 0 {
		return fmt.Errorf("IMPLICIT_TIMEOUT must be positive")
	}
	return nil
}

// RootURL is the application root the storefront redirects to after login and logout
func (c *E2EConfig) RootURL() string {
	return c.BaseURL + "/"
}
