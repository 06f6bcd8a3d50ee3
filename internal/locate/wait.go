package locate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultInterval is the polling period used when a Waiter leaves Interval unset
const DefaultInterval = 500 * time.Millisecond

// Condition is a predicate over page state.
// Check returns the satisfying value and true once the condition holds.
// Check errors are treated as "not yet" and retried, except ErrPageClosed.
type Condition[T any] struct {
	Description string
	Check       func(Page) (T, bool, error)
}

// Waiter polls conditions against one page with a bounded budget
type Waiter struct {
	Page     Page
	Timeout  time.Duration
	Interval time.Duration
}

// NewWaiter creates a waiter for page
func NewWaiter(page Page, timeout, interval time.Duration) *Waiter {
	return &Waiter{
		Page:     page,
		Timeout:  timeout,
		Interval: interval,
	}
}

// Within returns a copy of the waiter using a different budget
func (w *Waiter) Within(timeout time.Duration) *Waiter {
	c := *w
	c.Timeout = timeout
	return &c
}

// Until blocks until c holds, the waiter's timeout elapses or ctx is done.
// The condition is checked immediately, then once per interval, and a last
// time when the budget runs out.
func Until[T any](ctx context.Context, w *Waiter, c Condition[T]) (T, error) {
	var zero T

	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	check := func() (T, bool, error) {
		v, ok, err := c.Check(w.Page)
		if err != nil && errors.Is(err, ErrPageClosed) {
			return zero, false, err
		}
		return v, ok && err == nil, err
	}

	v, ok, lastErr := check()
	if ok {
		return v, nil
	}
	if errors.Is(lastErr, ErrPageClosed) {
		return zero, fmt.Errorf("waiting for %s: %w", c.Description, lastErr)
	}

	timer := time.NewTimer(w.Timeout)
	defer timer.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("waiting for %s: %w", c.Description, ctx.Err())
		case <-timer.C:
			v, ok, err := check()
			if ok {
				return v, nil
			}
			if err != nil {
				lastErr = err
			}
			return zero, &TimeoutError{Condition: c.Description, Timeout: w.Timeout, Last: lastErr}
		case <-ticker.C:
			v, ok, err := check()
			if ok {
				return v, nil
			}
			if errors.Is(err, ErrPageClosed) {
				return zero, fmt.Errorf("waiting for %s: %w", c.Description, err)
			}
			if err != nil {
				lastErr = err
			}
		}
	}
}
