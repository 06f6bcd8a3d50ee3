// Package browser drives a real browser through playwright and exposes each
// tab as a locate.Page.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/adyen/storefront-e2e/internal/config"
)

// Manager owns the playwright driver and hands out one fresh browser per session
type Manager struct {
	cfg *config.E2EConfig
	log *zap.Logger
	pw  *playwright.Playwright
}

// NewManager creates a manager; call Start before Acquire
func NewManager(cfg *config.E2EConfig, log *zap.Logger) *Manager {
	return &Manager{cfg: cfg, log: log}
}

// Start launches the playwright driver, installing the browser first when configured
func (m *Manager) Start() error {
	if m.cfg.InstallBrowsers {
		m.log.Info("installing browser", zap.String("browser", m.cfg.Browser))
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{m.cfg.Browser}}); err != nil {
			return fmt.Errorf("failed to install %s: %w", m.cfg.Browser, err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	m.pw = pw
	return nil
}

// Stop shuts the driver down
func (m *Manager) Stop() error {
	if m.pw == nil {
		return nil
	}
	err := m.pw.Stop()
	m.pw = nil
	if err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// Acquire launches a browser with a single tab. The tab's implicit timeout
// bounds every playwright action it performs.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SetupError{Stage: "launch", Err: err}
	}
	if m.pw == nil {
		return nil, &SetupError{Stage: "launch", Err: errors.New("playwright is not running")}
	}

	bt, err := selectBrowserType(m.pw, m.cfg.Browser)
	if err != nil {
		return nil, &SetupError{Stage: "launch", Err: err}
	}

	b, err := bt.Launch(launchOptions(m.cfg))
	if err != nil {
		return nil, &SetupError{Stage: "launch", Err: err}
	}

	bctx, err := b.NewContext()
	if err != nil {
		_ = b.Close()
		return nil, &SetupError{Stage: "context", Err: err}
	}
	bctx.SetDefaultTimeout(millis(m.cfg.ImplicitTimeout))

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = b.Close()
		return nil, &SetupError{Stage: "page", Err: err}
	}

	m.log.Debug("browser session acquired",
		zap.String("browser", m.cfg.Browser),
		zap.Bool("headless", m.cfg.Headless),
	)
	return newSession(b, bctx, page, m.log), nil
}

// Release closes the tab, its context and the browser. It is safe to call on
// a session whose browser already went away.
func (m *Manager) Release(s *Session) error {
	if s == nil {
		return nil
	}
	s.releasing.Store(true)

	var errs []error
	if !s.page.IsClosed() {
		if err := s.page.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
	}
	if err := s.context.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
		errs = append(errs, fmt.Errorf("close context: %w", err))
	}
	if s.browser.IsConnected() {
		if err := s.browser.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		m.log.Warn("browser session release incomplete", zap.Error(err))
		return err
	}
	m.log.Debug("browser session released")
	return nil
}

func selectBrowserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch strings.ToLower(name) {
	case config.BrowserChromium:
		return pw.Chromium, nil
	case config.BrowserFirefox:
		return pw.Firefox, nil
	case config.BrowserWebKit:
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unsupported browser %q", name)
	}
}

func launchOptions(cfg *config.E2EConfig) playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	}
	if cfg.SlowMo > 0 {
		opts.SlowMo = playwright.Float(millis(cfg.SlowMo))
	}
	return opts
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
