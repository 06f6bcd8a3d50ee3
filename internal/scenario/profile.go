package scenario

import "context"

func userProfile() Scenario {
	return Scenario{
		Number:      5,
		Slug:        "user-profile",
		Description: "customer profile shows a heading with Orders and Settings tabs",
		Run: func(ctx context.Context, e *Env) error {
			if err := loginCustomer(ctx, e); err != nil {
				return err
			}
			if err := e.Step(ctx, "open profile", func(context.Context) error {
				return e.Open("/profile")
			}); err != nil {
				return err
			}
			return e.Step(ctx, "see profile tabs", func(ctx context.Context) error {
				return waitAll(ctx, e, anyHeading, ordersTab, settingsTab)
			})
		},
	}
}
