// Package runner executes scenarios one after another, each in its own
// browser session, between fixture provisioning and teardown.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/adyen/storefront-e2e/internal/locate"
	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/scenario"
	"github.com/adyen/storefront-e2e/internal/services"
)

var (
	// ErrBrowserCrashed marks a scenario whose tab or browser died under it
	ErrBrowserCrashed = errors.New("browser crashed")
	// ErrScenarioPanic marks a scenario body that panicked
	ErrScenarioPanic = errors.New("scenario panicked")
	// ErrRunAborted is the reason recorded on scenarios that never started
	ErrRunAborted = errors.New("run aborted")
)

// Session is a browser tab the runner can hand to a scenario
type Session interface {
	locate.Page
	Crashed() bool
}

// SessionProvider creates and destroys isolated sessions
type SessionProvider interface {
	Acquire(ctx context.Context) (Session, error)
	Release(s Session) error
}

// Progress receives lifecycle events for reporting
type Progress interface {
	ScenarioStarted(name, description string)
	Step(o models.StepOutcome)
	ScenarioFinished(res *models.Result)
	Info(msg string)
}

// Dependencies wires a Runner
type Dependencies struct {
	Sessions SessionProvider
	// Fixtures may be nil when the run manages no seed data
	Fixtures        services.FixtureService
	Progress        Progress
	Options         scenario.Options
	Logger          *zap.Logger
	TeardownTimeout time.Duration
}

// Runner executes scenarios strictly sequentially
type Runner struct {
	deps Dependencies
	log  *zap.Logger
}

// New creates a runner
func New(deps Dependencies) *Runner {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if deps.TeardownTimeout <= 0 {
		deps.TeardownTimeout = 30 * time.Second
	}
	return &Runner{deps: deps, log: log}
}

// Run provisions fixtures, runs every scenario and tears the fixtures down.
// The returned error is non-nil only when provisioning failed; scenario
// outcomes are in the results.
func (r *Runner) Run(ctx context.Context, scenarios []scenario.Scenario) ([]*models.Result, error) {
	results := make([]*models.Result, 0, len(scenarios))

	if r.deps.Fixtures != nil {
		if err := r.deps.Fixtures.Provision(ctx); err != nil {
			r.log.Error("fixture provisioning failed", zap.Error(err))
			reason := fmt.Errorf("%w: %w", ErrRunAborted, err)
			for _, s := range scenarios {
				results = append(results, r.abandon(s, reason))
			}
			return results, fmt.Errorf("failed to provision fixtures: %w", err)
		}
	}

	var aborted error
	for _, s := range scenarios {
		if aborted == nil && ctx.Err() != nil {
			aborted = fmt.Errorf("%w: %w", ErrRunAborted, context.Cause(ctx))
		}
		if aborted != nil {
			results = append(results, r.abandon(s, aborted))
			continue
		}

		res, crashed := r.runOne(ctx, s)
		results = append(results, res)
		if crashed {
			aborted = fmt.Errorf("%w: %w during %s", ErrRunAborted, ErrBrowserCrashed, s.Name())
		}
	}

	r.teardown(ctx)
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, s scenario.Scenario) (*models.Result, bool) {
	log := r.log.With(zap.String("scenario", s.Name()))
	res, _ := models.NewResult(s.Name())
	r.deps.Progress.ScenarioStarted(s.Name(), s.Description)
	defer r.deps.Progress.ScenarioFinished(res)

	session, err := r.deps.Sessions.Acquire(ctx)
	if err != nil {
		log.Error("session setup failed", zap.Error(err))
		_ = res.Error(err)
		return res, false
	}
	defer func() {
		if err := r.deps.Sessions.Release(session); err != nil {
			log.Warn("session release failed", zap.Error(err))
		}
	}()

	opts := r.deps.Options
	opts.Log = log
	opts.OnStep = r.deps.Progress.Step
	env := scenario.NewEnv(session, res, opts)

	panicked, runErr := execute(ctx, s, env)

	crashed := session.Crashed()
	switch {
	case panicked:
		log.Error("scenario panicked", zap.Error(runErr))
		_ = res.Error(runErr)
	case crashed:
		log.Error("browser crashed", zap.Error(runErr))
		_ = res.Complete(crashError(runErr))
	default:
		if runErr != nil {
			log.Info("scenario failed", zap.Error(runErr))
		}
		_ = res.Complete(runErr)
	}

	log.Debug("scenario finished", zap.String("status", string(res.Status)), zap.Duration("duration", res.Duration()))
	return res, crashed
}

func execute(ctx context.Context, s scenario.Scenario, env *scenario.Env) (panicked bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			panicked = true
			err = fmt.Errorf("%w: %v", ErrScenarioPanic, p)
		}
	}()
	return false, s.Run(ctx, env)
}

func crashError(err error) error {
	if err == nil {
		return ErrBrowserCrashed
	}
	return fmt.Errorf("%w: %w", ErrBrowserCrashed, err)
}

func (r *Runner) abandon(s scenario.Scenario, reason error) *models.Result {
	res, _ := models.NewResult(s.Name())
	_ = res.Abandon(reason)
	r.deps.Progress.ScenarioFinished(res)
	return res
}

// teardown runs even after cancellation so an interrupted run still cleans up
func (r *Runner) teardown(ctx context.Context) {
	if r.deps.Fixtures == nil {
		return
	}
	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.deps.TeardownTimeout)
	defer cancel()

	if err := r.deps.Fixtures.Teardown(tctx); err != nil {
		r.log.Warn("fixture teardown failed", zap.Error(err))
		r.deps.Progress.Info(fmt.Sprintf("fixture teardown incomplete: %v", err))
	}
}
