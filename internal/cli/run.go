// Package cli wires configuration, sessions, fixtures and reporting into the
// run and list commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/report"
	"github.com/adyen/storefront-e2e/internal/runner"
	"github.com/adyen/storefront-e2e/internal/scenario"
	"github.com/adyen/storefront-e2e/internal/services"
)

// ErrRunFailed is returned when the run is not green; the process exits non-zero
var ErrRunFailed = errors.New("run failed")

// RunDependencies holds all dependencies needed for a run
type RunDependencies struct {
	RunID          string
	E2EConfig      *config.E2EConfig
	Credentials    *config.CredentialsConfig
	FixturesConfig *config.FixturesConfig
	Scenarios      []scenario.Scenario
	Sessions       runner.SessionProvider
	FixtureService services.FixtureService
	Reporter       *report.Reporter
	Logger         *zap.Logger
}

// Run executes the selected scenarios and prints the summary
func Run(ctx context.Context, deps RunDependencies) error {
	log := deps.Logger
	log.Info("run started",
		zap.String("base_url", deps.E2EConfig.BaseURL),
		zap.String("browser", deps.E2EConfig.Browser),
		zap.Int("scenarios", len(deps.Scenarios)),
	)

	r := runner.New(runner.Dependencies{
		Sessions: deps.Sessions,
		Fixtures: deps.FixtureService,
		Progress: deps.Reporter,
		Options: scenario.Options{
			Config:        deps.E2EConfig,
			Credentials:   deps.Credentials,
			ProductPrefix: deps.FixturesConfig.ProductPrefix,
		},
		Logger:          log,
		TeardownTimeout: deps.FixturesConfig.APITimeout * 3,
	})

	_, runErr := r.Run(ctx, deps.Scenarios)
	summary := deps.Reporter.PrintSummary(deps.E2EConfig.Strict)

	log.Info("run finished",
		zap.Int("passed", summary.Passed),
		zap.Int("partial", summary.Partial),
		zap.Int("failed", summary.Failed),
		zap.Int("errored", summary.Errored),
		zap.Int("not_run", summary.NotRun),
	)

	switch {
	case runErr != nil:
		return fmt.Errorf("%w: %w", ErrRunFailed, runErr)
	case ctx.Err() != nil:
		return fmt.Errorf("%w: interrupted", ErrRunFailed)
	case !summary.OK(deps.E2EConfig.Strict):
		return notPassing(summary, deps.E2EConfig.Strict)
	}
	return nil
}

func notPassing(s report.Summary, strict bool) error {
	parts := []string{
		fmt.Sprintf("%d failed", s.Failed),
		fmt.Sprintf("%d errored", s.Errored),
		fmt.Sprintf("%d not run", s.NotRun),
	}
	if strict && s.Partial > 0 {
		parts = append(parts, fmt.Sprintf("%d partial in strict mode", s.Partial))
	}
	return fmt.Errorf("%w: %s", ErrRunFailed, strings.Join(parts, ", "))
}

// SignalContext is cancelled on SIGINT or SIGTERM
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// List prints the scenario catalogue
func List(w io.Writer, scenarios []scenario.Scenario, verbose bool) {
	for _, s := range scenarios {
		if !verbose {
			fmt.Fprintln(w, s.Name())
			continue
		}
		fmt.Fprintf(w, "%s\n    %s\n", s.Name(), s.Description)
		if len(s.Tolerant) > 0 {
			fmt.Fprintf(w, "    tolerant: %s\n", strings.Join(s.Tolerant, "; "))
		}
	}
}
