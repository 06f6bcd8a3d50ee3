package models

import (
	"errors"
	"fmt"
	"time"
)

// Status represents the outcome of one scenario
type Status string

// Scenario statuses
const (
	StatusPending Status = "pending"
	StatusPassed  Status = "passed"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
	StatusErrored Status = "errored"
	StatusNotRun  Status = "not_run"
)

// StepStatus represents the outcome of one step inside a scenario
type StepStatus string

// Step statuses
const (
	StepSuccess StepStatus = "success"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// StepOutcome records what happened to a single scripted step.
// Skipped steps ran under a tolerant policy; Reason says why they did not succeed.
type StepOutcome struct {
	Name     string
	Status   StepStatus
	Reason   string
	Err      error
	Duration time.Duration
}

// Succeeded builds a success outcome
func Succeeded(name string, d time.Duration) StepOutcome {
	return StepOutcome{Name: name, Status: StepSuccess, Duration: d}
}

// Skipped builds a tolerated outcome
func Skipped(name string, err error, d time.Duration) StepOutcome {
	o := StepOutcome{Name: name, Status: StepSkipped, Err: err, Duration: d}
	if err != nil {
		o.Reason = err.Error()
	}
	return o
}

// Failed builds a failure outcome
func Failed(name string, err error, d time.Duration) StepOutcome {
	o := StepOutcome{Name: name, Status: StepFailed, Err: err, Duration: d}
	if err != nil {
		o.Reason = err.Error()
	}
	return o
}

// Result aggregates a scenario run
type Result struct {
	Scenario   string
	Status     Status
	Steps      []StepOutcome
	Notes      []string
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Domain errors
var (
	ErrInvalidScenarioName     = errors.New("scenario name cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid result status transition")
	ErrResultFinalized         = errors.New("result is already finalized")
)

// NewResult creates a pending result for the named scenario
func NewResult(scenario string) (*Result, error) {
	if scenario == "" {
		return nil, ErrInvalidScenarioName
	}
	return &Result{
		Scenario:  scenario,
		Status:    StatusPending,
		StartedAt: time.Now(),
	}, nil
}

// Record appends a step outcome to a pending result
func (r *Result) Record(o StepOutcome) error {
	if r.Status != StatusPending {
		return fmt.Errorf("%w: cannot record step %q on %s result", ErrResultFinalized, o.Name, r.Status)
	}
	r.Steps = append(r.Steps, o)
	return nil
}

// Note appends an informational line
func (r *Result) Note(msg string) {
	r.Notes = append(r.Notes, msg)
}

// Complete finalizes a scenario whose body returned.
// A returned error fails it; any tolerated step makes it partial.
func (r *Result) Complete(err error) error {
	if r.Status != StatusPending {
		return fmt.Errorf("%w: cannot complete %s result", ErrInvalidStatusTransition, r.Status)
	}

	switch {
	case err != nil:
		r.Status = StatusFailed
		r.Err = err
	case r.hasTolerated():
		r.Status = StatusPartial
	default:
		r.Status = StatusPassed
	}
	r.FinishedAt = time.Now()
	return nil
}

// Error marks a scenario that could not run or blew up outside its steps
func (r *Result) Error(err error) error {
	if r.Status != StatusPending {
		return fmt.Errorf("%w: cannot error %s result", ErrInvalidStatusTransition, r.Status)
	}
	if err == nil {
		return errors.New("errored result requires an error")
	}

	r.Status = StatusErrored
	r.Err = err
	r.FinishedAt = time.Now()
	return nil
}

// Abandon marks a scenario that never started because the run was aborted
func (r *Result) Abandon(reason error) error {
	if r.Status != StatusPending {
		return fmt.Errorf("%w: cannot abandon %s result", ErrInvalidStatusTransition, r.Status)
	}

	r.Status = StatusNotRun
	r.Err = reason
	r.FinishedAt = time.Now()
	return nil
}

func (r *Result) hasTolerated() bool {
	for _, s := range r.Steps {
		if s.Status != StepSuccess {
			return true
		}
	}
	return false
}

// Tolerated returns the steps that did not succeed
func (r *Result) Tolerated() []StepOutcome {
	var out []StepOutcome
	for _, s := range r.Steps {
		if s.Status != StepSuccess {
			out = append(out, s)
		}
	}
	return out
}

// IsPassing reports whether the result counts towards a green run.
// Strict runs do not accept partial results.
func (r *Result) IsPassing(strict bool) bool {
	switch r.Status {
	case StatusPassed:
		return true
	case StatusPartial:
		return !strict
	default:
		return false
	}
}

// Duration returns how long the scenario ran
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
