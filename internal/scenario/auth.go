package scenario

import "context"

func loginLogout() Scenario {
	return Scenario{
		Number:      2,
		Slug:        "login-logout",
		Description: "customer signs in, lands on the root, then logs out from the profile",
		Run: func(ctx context.Context, e *Env) error {
			if err := loginCustomer(ctx, e); err != nil {
				return err
			}

			return e.Step(ctx, "log out", func(ctx context.Context) error {
				if err := e.Open("/profile"); err != nil {
					return err
				}
				if err := e.ClickWhenReady(ctx, logoutButton); err != nil {
					return err
				}
				return e.WaitURL(ctx, e.RootURL())
			})
		},
	}
}
