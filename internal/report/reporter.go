// Package report prints human-readable progress and the run summary.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/adyen/storefront-e2e/internal/models"
)

// Verbosity selects how much the reporter prints
type Verbosity int

const (
	// Quiet prints only the summary
	Quiet Verbosity = iota
	// Normal adds a status line per scenario plus its notes and tolerated steps
	Normal
	// Verbose adds every step outcome with its duration
	Verbose
)

// Reporter writes progress lines and aggregates results
type Reporter struct {
	w     io.Writer
	level Verbosity

	ok      *color.Color
	partial *color.Color
	fail    *color.Color
	errored *color.Color
	info    *color.Color

	mu      sync.Mutex
	results []*models.Result
}

// New creates a reporter. Colour codes are written only when useColor is set.
func New(w io.Writer, level Verbosity, useColor bool) *Reporter {
	r := &Reporter{
		w:       w,
		level:   level,
		ok:      color.New(color.FgGreen),
		partial: color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
		errored: color.New(color.FgHiRed, color.Bold),
		info:    color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{r.ok, r.partial, r.fail, r.errored, r.info} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// ScenarioStarted prints the scenario banner
func (r *Reporter) ScenarioStarted(name, description string) {
	if r.level < Normal {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "\n--- %s: %s ---\n", name, description)
}

// Step prints one step outcome in verbose mode
func (r *Reporter) Step(o models.StepOutcome) {
	if r.level < Verbose {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	d := round(o.Duration)
	switch o.Status {
	case models.StepSuccess:
		fmt.Fprintf(r.w, "  %s %s (%s)\n", r.ok.Sprint("[OK]"), o.Name, d)
	case models.StepSkipped:
		fmt.Fprintf(r.w, "  %s %s skipped (%s): %s\n", r.info.Sprint("[INFO]"), o.Name, d, o.Reason)
	default:
		fmt.Fprintf(r.w, "  %s %s (%s): %s\n", r.fail.Sprint("[FAIL]"), o.Name, d, o.Reason)
	}
}

// Info prints a free-standing informational line
func (r *Reporter) Info(msg string) {
	if r.level < Normal {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "%s %s\n", r.info.Sprint("[INFO]"), msg)
}

// ScenarioFinished prints the scenario status line and records the result
func (r *Reporter) ScenarioFinished(res *models.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)

	if r.level < Normal {
		return
	}
	for _, n := range res.Notes {
		fmt.Fprintf(r.w, "%s %s\n", r.info.Sprint("[INFO]"), n)
	}
	if r.level < Verbose {
		for _, s := range res.Tolerated() {
			fmt.Fprintf(r.w, "%s tolerated %s: %s\n", r.info.Sprint("[INFO]"), s.Name, s.Reason)
		}
	}
	fmt.Fprintln(r.w, r.statusLine(res))
}

func (r *Reporter) statusLine(res *models.Result) string {
	d := round(res.Duration())
	switch res.Status {
	case models.StatusPassed:
		return fmt.Sprintf("%s %s passed (%s)", r.ok.Sprint("[OK]"), res.Scenario, d)
	case models.StatusPartial:
		return fmt.Sprintf("%s %s passed partially (%s)", r.partial.Sprint("[PARTIAL]"), res.Scenario, d)
	case models.StatusFailed:
		return fmt.Sprintf("%s %s failed (%s): %v", r.fail.Sprint("[FAIL]"), res.Scenario, d, res.Err)
	case models.StatusErrored:
		return fmt.Sprintf("%s %s errored: %v", r.errored.Sprint("[ERROR]"), res.Scenario, res.Err)
	case models.StatusNotRun:
		return fmt.Sprintf("%s %s not run: %v", r.info.Sprint("[INFO]"), res.Scenario, res.Err)
	default:
		return fmt.Sprintf("%s %s %s", r.info.Sprint("[INFO]"), res.Scenario, res.Status)
	}
}

// Summary counts results by status
type Summary struct {
	Total   int
	Passed  int
	Partial int
	Failed  int
	Errored int
	NotRun  int
}

// OK reports whether the run is green. Strict runs reject partial results.
func (s Summary) OK(strict bool) bool {
	if s.Failed > 0 || s.Errored > 0 || s.NotRun > 0 {
		return false
	}
	return !strict || s.Partial == 0
}

// Summary aggregates every finished scenario so far
func (r *Reporter) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s Summary
	for _, res := range r.results {
		s.Total++
		switch res.Status {
		case models.StatusPassed:
			s.Passed++
		case models.StatusPartial:
			s.Partial++
		case models.StatusFailed:
			s.Failed++
		case models.StatusErrored:
			s.Errored++
		case models.StatusNotRun:
			s.NotRun++
		}
	}
	return s
}

// PrintSummary writes the aggregate at any verbosity and returns it
func (r *Reporter) PrintSummary(strict bool) Summary {
	s := r.Summary()

	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.w, "\n%d scenario(s): %d passed, %d partial, %d failed, %d errored, %d not run\n",
		s.Total, s.Passed, s.Partial, s.Failed, s.Errored, s.NotRun)

	var bad []string
	for _, res := range r.results {
		if !res.IsPassing(strict) {
			bad = append(bad, res.Scenario)
		}
	}
	if len(bad) > 0 {
		fmt.Fprintf(r.w, "not passing: %s\n", strings.Join(bad, ", "))
	}

	if s.OK(strict) {
		fmt.Fprintln(r.w, r.ok.Sprint("PASS"))
	} else {
		fmt.Fprintln(r.w, r.fail.Sprint("FAIL"))
	}
	return s
}

func round(d time.Duration) time.Duration {
	if d < time.Second {
		return d.Round(time.Millisecond)
	}
	return d.Round(100 * time.Millisecond)
}
