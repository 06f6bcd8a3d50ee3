package locate

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrElementNotFound = errors.New("element not found")
	ErrWaitTimeout     = errors.New("wait timed out")
	// ErrPageClosed means the tab or browser is gone; waits stop retrying on it
	ErrPageClosed = errors.New("page closed")
)

// NotFoundError reports a lookup that found nothing within the implicit timeout
type NotFoundError struct {
	Locator Locator
	Last    error
}

func (e *NotFoundError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("element not found: %s: %v", e.Locator, e.Last)
	}
	return fmt.Sprintf("element not found: %s", e.Locator)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrElementNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Last
}

// TimeoutError reports a condition that never held within its budget
type TimeoutError struct {
	Condition string
	Timeout   time.Duration
	Last      error
}

func (e *TimeoutError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("timed out after %s waiting for %s: %v", e.Timeout, e.Condition, e.Last)
	}
	return fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Condition)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrWaitTimeout
}

func (e *TimeoutError) Unwrap() error {
	return e.Last
}
