package browser

import (
	"errors"
	"fmt"
)

// ErrSetupFailure marks a session that could not be acquired
var ErrSetupFailure = errors.New("browser setup failed")

// SetupError reports which acquisition stage failed
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("browser setup failed at %s: %v", e.Stage, e.Err)
}

func (e *SetupError) Is(target error) bool {
	return target == ErrSetupFailure
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
