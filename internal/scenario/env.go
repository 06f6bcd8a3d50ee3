package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/locate"
	"github.com/adyen/storefront-e2e/internal/models"
)

// StepObserver is told about every recorded step outcome
type StepObserver func(models.StepOutcome)

// Options configures an Env
type Options struct {
	Config        *config.E2EConfig
	Credentials   *config.CredentialsConfig
	ProductPrefix string
	Log           *zap.Logger
	OnStep        StepObserver
	// Now defaults to time.Now
	Now func() time.Time
}

// Env is what a scenario script sees: one page, its waiters and the fixtures
type Env struct {
	Page     locate.Page
	Wait     *locate.Waiter
	Implicit *locate.Waiter

	BaseURL       string
	Customer      models.Credential
	Admin         models.Credential
	ProductPrefix string
	SettleDelay   time.Duration
	Now           func() time.Time
	Log           *zap.Logger

	rootURL string
	result  *models.Result
	onStep  StepObserver
	// depth is non-zero while a tolerant chain runs
	depth int
}

// NewEnv binds a page and a pending result into a script environment
func NewEnv(page locate.Page, result *models.Result, opts Options) *Env {
	cfg := opts.Config
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	wait := locate.NewWaiter(page, cfg.WaitTimeout, cfg.PollInterval)
	e := &Env{
		Page:          page,
		Wait:          wait,
		Implicit:      wait.Within(cfg.ImplicitTimeout),
		BaseURL:       cfg.BaseURL,
		ProductPrefix: opts.ProductPrefix,
		SettleDelay:   cfg.SettleDelay,
		Now:           now,
		Log:           log,
		rootURL:       cfg.RootURL(),
		result:        result,
		onStep:        opts.OnStep,
	}
	if opts.Credentials != nil {
		e.Customer = opts.Credentials.Customer
		e.Admin = opts.Credentials.Admin
	}
	return e
}

// RootURL is the exact URL the storefront lands on after customer login and logout
func (e *Env) RootURL() string {
	return e.rootURL
}

// Step runs a required step. A failure ends the scenario.
func (e *Env) Step(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)

	switch {
	case err == nil:
		e.record(models.Succeeded(name, d))
		return nil
	case e.depth > 0 && tolerable(ctx, err):
		e.record(models.Skipped(name, err, d))
	default:
		e.record(models.Failed(name, err, d))
	}
	return fmt.Errorf("%s: %w", name, err)
}

// Optional runs a step whose failure is tolerated. It reports whether the step
// succeeded; the error is non-nil only when the page or the run is gone.
func (e *Env) Optional(ctx context.Context, name string, fn func(context.Context) error) (bool, error) {
	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)

	if err == nil {
		e.record(models.Succeeded(name, d))
		return true, nil
	}
	if !tolerable(ctx, err) {
		e.record(models.Failed(name, err, d))
		return false, fmt.Errorf("%s: %w", name, err)
	}

	e.record(models.Skipped(name, err, d))
	e.Log.Info("optional step skipped", zap.String("step", name), zap.Error(err))
	return false, nil
}

// Tolerant runs a chain of steps; the first failing step stops the chain and
// the chain as a whole is recorded as skipped.
func (e *Env) Tolerant(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	e.depth++
	err := fn(ctx)
	e.depth--
	d := time.Since(start)

	if err == nil {
		e.record(models.Succeeded(name, d))
		return nil
	}
	if !tolerable(ctx, err) {
		e.record(models.Failed(name, err, d))
		return fmt.Errorf("%s: %w", name, err)
	}

	e.record(models.Skipped(name, err, d))
	e.Log.Info("tolerant chain stopped", zap.String("chain", name), zap.Error(err))
	return nil
}

// Note attaches an informational line to the scenario result
func (e *Env) Note(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.result.Note(msg)
	e.Log.Debug("note", zap.String("note", msg))
}

func (e *Env) record(o models.StepOutcome) {
	if err := e.result.Record(o); err != nil {
		e.Log.Warn("step outcome dropped", zap.String("step", o.Name), zap.Error(err))
		return
	}
	if e.onStep != nil {
		e.onStep(o)
	}
}

// tolerable is false for failures no policy may swallow: a dead page or a
// cancelled run
func tolerable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, locate.ErrPageClosed) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// Open navigates to a path below the base URL
func (e *Env) Open(path string) error {
	return e.Page.Navigate(e.BaseURL + path)
}

// Find looks an element up within the implicit timeout
func (e *Env) Find(ctx context.Context, loc locate.Locator) (locate.Element, error) {
	return locate.Find(ctx, e.Implicit, loc)
}

// FindIn looks an element up below parent within the implicit timeout
func (e *Env) FindIn(ctx context.Context, parent locate.Element, loc locate.Locator) (locate.Element, error) {
	return locate.FindIn(ctx, e.Implicit, parent, loc)
}

// FindAll returns every current match without waiting
func (e *Env) FindAll(loc locate.Locator) ([]locate.Element, error) {
	return locate.FindAll(e.Page, loc)
}

func (e *Env) WaitPresent(ctx context.Context, loc locate.Locator) (locate.Element, error) {
	return locate.Until(ctx, e.Wait, locate.Present(loc))
}

func (e *Env) WaitClickable(ctx context.Context, loc locate.Locator) (locate.Element, error) {
	return locate.Until(ctx, e.Wait, locate.Clickable(loc))
}

func (e *Env) WaitAbsent(ctx context.Context, loc locate.Locator) error {
	_, err := locate.Until(ctx, e.Wait, locate.Absent(loc))
	return err
}

func (e *Env) WaitURL(ctx context.Context, url string) error {
	_, err := locate.Until(ctx, e.Wait, locate.URLEquals(url))
	return err
}

func (e *Env) WaitURLContains(ctx context.Context, fragment string) error {
	_, err := locate.Until(ctx, e.Wait, locate.URLContains(fragment))
	return err
}

func (e *Env) WaitAlert(ctx context.Context) (locate.Dialog, error) {
	return locate.Until(ctx, e.Wait, locate.AlertPresent())
}

// Type finds a control and replaces its value
func (e *Env) Type(ctx context.Context, loc locate.Locator, value string) error {
	el, err := e.Find(ctx, loc)
	if err != nil {
		return err
	}
	return el.Fill(value)
}

// Click finds an element and clicks it
func (e *Env) Click(ctx context.Context, loc locate.Locator) error {
	el, err := e.Find(ctx, loc)
	if err != nil {
		return err
	}
	return el.Click()
}

// ClickWhenReady waits until the element is clickable, then clicks it
func (e *Env) ClickWhenReady(ctx context.Context, loc locate.Locator) error {
	el, err := e.WaitClickable(ctx, loc)
	if err != nil {
		return err
	}
	return el.Click()
}

// AcceptAlert waits for a native dialog, accepts it and returns its message
func (e *Env) AcceptAlert(ctx context.Context) (string, error) {
	d, err := e.WaitAlert(ctx)
	if err != nil {
		return "", err
	}
	msg := d.Message()
	if err := d.Accept(); err != nil {
		return msg, fmt.Errorf("accept %s: %w", d.Kind(), err)
	}
	return msg, nil
}

// Settle sleeps for the configured settle delay. Only used where the
// storefront gives no observable completion signal.
func (e *Env) Settle(ctx context.Context) error {
	if e.SettleDelay <= 0 {
		return nil
	}
	t := time.NewTimer(e.SettleDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
