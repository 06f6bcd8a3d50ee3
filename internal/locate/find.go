package locate

import (
	"context"
	"errors"
)

// Find returns the first element matching loc, polling up to the waiter's
// timeout (the implicit lookup budget). It fails with a *NotFoundError.
func Find(ctx context.Context, w *Waiter, loc Locator) (Element, error) {
	el, err := Until(ctx, w, Present(loc))
	if err != nil {
		return nil, notFound(loc, err)
	}
	return el, nil
}

// FindIn is Find scoped below parent
func FindIn(ctx context.Context, w *Waiter, parent Element, loc Locator) (Element, error) {
	loc = loc.Relative()
	el, err := Until(ctx, w, Condition[Element]{
		Description: "presence of " + loc.String(),
		Check: func(Page) (Element, bool, error) {
			els, err := parent.QueryAll(loc)
			if err != nil || len(els) == 0 {
				return nil, false, err
			}
			return els[0], true, nil
		},
	})
	if err != nil {
		return nil, notFound(loc, err)
	}
	return el, nil
}

// FindAll returns every element matching loc right now, possibly none.
// Use it only for state a previous wait has already made stable.
func FindAll(p Page, loc Locator) ([]Element, error) {
	return p.QueryAll(loc)
}

// notFound maps a wait timeout onto the lookup error kind; closed pages and
// cancellation pass through unchanged
func notFound(loc Locator, err error) error {
	var te *TimeoutError
	if errors.As(err, &te) {
		return &NotFoundError{Locator: loc, Last: te.Last}
	}
	return err
}
