package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/locate"
	"github.com/adyen/storefront-e2e/internal/locate/locatetest"
	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/scenario"
)

type fakeSession struct {
	*locatetest.Site
	crashed atomic.Bool
}

func (s *fakeSession) Crashed() bool {
	return s.crashed.Load()
}

// fakeProvider hands out in-memory sessions and counts their lifecycle
type fakeProvider struct {
	failOn   map[int]error
	calls    int
	acquired int
	released int
	sessions []*fakeSession
}

func (p *fakeProvider) Acquire(context.Context) (Session, error) {
	p.calls++
	if err, ok := p.failOn[p.calls]; ok {
		return nil, err
	}
	p.acquired++
	s := &fakeSession{Site: locatetest.NewSite("http://shop.test").Static("/", "<h1>Home</h1>")}
	p.sessions = append(p.sessions, s)
	return s, nil
}

func (p *fakeProvider) Release(Session) error {
	p.released++
	return nil
}

// MockFixtureService is a mock implementation of services.FixtureService for testing
type MockFixtureService struct {
	ProvisionFunc func(context.Context) error
	TeardownFunc  func(context.Context) error
}

func (m *MockFixtureService) Provision(ctx context.Context) error {
	if m.ProvisionFunc != nil {
		return m.ProvisionFunc(ctx)
	}
	return nil
}

func (m *MockFixtureService) Teardown(ctx context.Context) error {
	if m.TeardownFunc != nil {
		return m.TeardownFunc(ctx)
	}
	return nil
}

type recorder struct {
	started  []string
	finished []*models.Result
	steps    int
	info     []string
}

func (r *recorder) ScenarioStarted(name, _ string) {
	r.started = append(r.started, name)
}

func (r *recorder) Step(models.StepOutcome) {
	r.steps++
}

func (r *recorder) ScenarioFinished(res *models.Result) {
	r.finished = append(r.finished, res)
}

func (r *recorder) Info(msg string) {
	r.info = append(r.info, msg)
}

func options() scenario.Options {
	return scenario.Options{
		Config: &config.E2EConfig{
			BaseURL:         "http://shop.test",
			ImplicitTimeout: 50 * time.Millisecond,
			WaitTimeout:     50 * time.Millisecond,
			PollInterval:    5 * time.Millisecond,
		},
	}
}

func script(number int, run func(ctx context.Context, e *scenario.Env) error) scenario.Scenario {
	return scenario.Scenario{Number: number, Slug: "case", Description: "test case", Run: run}
}

func openHome(ctx context.Context, e *scenario.Env) error {
	return e.Step(ctx, "open home", func(ctx context.Context) error {
		if err := e.Open("/"); err != nil {
			return err
		}
		_, err := e.WaitPresent(ctx, locate.Tag("h1"))
		return err
	})
}

func newRunner(t *testing.T, p *fakeProvider, f *MockFixtureService, rec *recorder) *Runner {
	deps := Dependencies{
		Sessions: p,
		Progress: rec,
		Options:  options(),
		Logger:   zaptest.NewLogger(t),
	}
	if f != nil {
		deps.Fixtures = f
	}
	return New(deps)
}

func statuses(results []*models.Result) []models.Status {
	var out []models.Status
	for _, r := range results {
		out = append(out, r.Status)
	}
	return out
}

func TestRunner_EverySessionIsReleased(t *testing.T) {
	// GIVEN scenarios that pass, fail and panic
	p := &fakeProvider{}
	rec := &recorder{}
	r := newRunner(t, p, nil, rec)
	scenarios := []scenario.Scenario{
		script(1, openHome),
		script(2, func(ctx context.Context, e *scenario.Env) error {
			return e.Step(ctx, "missing", func(ctx context.Context) error {
				_, err := e.Find(ctx, locate.Tag("h2"))
				return err
			})
		}),
		script(3, func(context.Context, *scenario.Env) error { panic("nil map") }),
		script(4, openHome),
	}

	// WHEN they run
	results, err := r.Run(context.Background(), scenarios)

	// THEN each acquired session is released exactly once
	require.NoError(t, err)
	assert.Equal(t, 4, p.acquired)
	assert.Equal(t, p.acquired, p.released)
	assert.Equal(t, []models.Status{models.StatusPassed, models.StatusFailed, models.StatusErrored, models.StatusPassed}, statuses(results))
	assert.ErrorIs(t, results[1].Err, locate.ErrElementNotFound)
	assert.ErrorIs(t, results[2].Err, ErrScenarioPanic)
	assert.Equal(t, []string{"01-case", "02-case", "03-case", "04-case"}, rec.started)
	assert.Len(t, rec.finished, 4)
	assert.Equal(t, 3, rec.steps)
}

func TestRunner_ReleasesWhenEnvironmentSetupPanics(t *testing.T) {
	// GIVEN options the scenario environment cannot be built from
	p := &fakeProvider{}
	r := New(Dependencies{
		Sessions: p,
		Progress: &recorder{},
		Logger:   zaptest.NewLogger(t),
	})

	// WHEN the run panics outside the scenario body
	assert.Panics(t, func() {
		_, _ = r.Run(context.Background(), []scenario.Scenario{script(1, openHome)})
	})

	// THEN the acquired session was still released
	assert.Equal(t, 1, p.acquired)
	assert.Equal(t, 1, p.released)
}

func TestRunner_SetupFailureErrorsOnlyThatScenario(t *testing.T) {
	setupErr := errors.New("browser setup failed at launch: no binary")
	p := &fakeProvider{failOn: map[int]error{2: setupErr}}
	r := newRunner(t, p, nil, &recorder{})

	results, err := r.Run(context.Background(), []scenario.Scenario{
		script(1, openHome), script(2, openHome), script(3, openHome),
	})

	require.NoError(t, err)
	assert.Equal(t, []models.Status{models.StatusPassed, models.StatusErrored, models.StatusPassed}, statuses(results))
	assert.ErrorIs(t, results[1].Err, setupErr)
	assert.Equal(t, 2, p.acquired)
	assert.Equal(t, 2, p.released)
}

func TestRunner_CrashAbortsTheRest(t *testing.T) {
	p := &fakeProvider{}
	r := newRunner(t, p, nil, &recorder{})

	results, err := r.Run(context.Background(), []scenario.Scenario{
		script(1, openHome),
		script(2, func(ctx context.Context, e *scenario.Env) error {
			p.sessions[len(p.sessions)-1].crashed.Store(true)
			p.sessions[len(p.sessions)-1].Close()
			return openHome(ctx, e)
		}),
		script(3, openHome),
		script(4, openHome),
	})

	require.NoError(t, err)
	assert.Equal(t, []models.Status{models.StatusPassed, models.StatusFailed, models.StatusNotRun, models.StatusNotRun}, statuses(results))
	assert.ErrorIs(t, results[1].Err, ErrBrowserCrashed)
	assert.ErrorIs(t, results[1].Err, locate.ErrPageClosed)
	assert.ErrorIs(t, results[2].Err, ErrRunAborted)
	assert.ErrorIs(t, results[3].Err, ErrBrowserCrashed)
	assert.Equal(t, 2, p.acquired)
	assert.Equal(t, 2, p.released)
}

func TestRunner_ProvisionFailureRunsNothing(t *testing.T) {
	p := &fakeProvider{}
	rec := &recorder{}
	torn := false
	f := &MockFixtureService{
		ProvisionFunc: func(context.Context) error { return errors.New("customer account cannot sign in") },
		TeardownFunc: func(context.Context) error {
			torn = true
			return nil
		},
	}
	r := newRunner(t, p, f, rec)

	results, err := r.Run(context.Background(), []scenario.Scenario{script(1, openHome), script(2, openHome)})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer account cannot sign in")
	assert.Equal(t, []models.Status{models.StatusNotRun, models.StatusNotRun}, statuses(results))
	assert.Zero(t, p.acquired)
	assert.False(t, torn)
	assert.Len(t, rec.finished, 2)
}

func TestRunner_InterruptStillTearsDown(t *testing.T) {
	// GIVEN a run interrupted during the first scenario
	p := &fakeProvider{}
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	var teardownCtxErr error
	tornDown := false
	f := &MockFixtureService{
		TeardownFunc: func(ctx context.Context) error {
			tornDown = true
			teardownCtxErr = ctx.Err()
			return errors.New("status 500")
		},
	}
	r := newRunner(t, p, f, rec)

	// WHEN it runs
	results, err := r.Run(ctx, []scenario.Scenario{
		script(1, func(ctx context.Context, e *scenario.Env) error {
			cancel()
			return e.Step(ctx, "wait", func(ctx context.Context) error {
				_, err := e.WaitPresent(ctx, locate.Tag("h2"))
				return err
			})
		}),
		script(2, openHome),
	})

	// THEN the rest is abandoned and fixtures are still cleaned with a live context
	require.NoError(t, err)
	assert.Equal(t, []models.Status{models.StatusFailed, models.StatusNotRun}, statuses(results))
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.ErrorIs(t, results[1].Err, context.Canceled)
	assert.True(t, tornDown)
	assert.NoError(t, teardownCtxErr)
	assert.Equal(t, []string{"fixture teardown incomplete: status 500"}, rec.info)
	assert.Equal(t, 1, p.released)
}
