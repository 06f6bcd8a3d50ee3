// Package scenario holds the storefront user journeys and the step API they
// are written against.
package scenario

import (
	"context"
	"fmt"
)

// Scenario is one independent user journey
type Scenario struct {
	Number      int
	Slug        string
	Description string
	// Tolerant names the steps whose failure only makes the result partial
	Tolerant []string
	Run      func(ctx context.Context, e *Env) error
}

// Name is the numbered identifier, e.g. 03-shopping-cart
func (s Scenario) Name() string {
	return fmt.Sprintf("%02d-%s", s.Number, s.Slug)
}
