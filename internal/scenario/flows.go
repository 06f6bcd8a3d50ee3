package scenario

import (
	"context"

	"github.com/adyen/storefront-e2e/internal/locate"
	"github.com/adyen/storefront-e2e/internal/models"
)

func submitLogin(ctx context.Context, e *Env, cred models.Credential) error {
	if err := e.Open("/login"); err != nil {
		return err
	}
	if err := e.Type(ctx, emailInput, cred.Email); err != nil {
		return err
	}
	if err := e.Type(ctx, passwordInput, cred.Password); err != nil {
		return err
	}
	return e.Click(ctx, signInButton)
}

// loginCustomer signs in and waits for the redirect to the root
func loginCustomer(ctx context.Context, e *Env) error {
	return e.Step(ctx, "log in as "+e.Customer.String(), func(ctx context.Context) error {
		if err := submitLogin(ctx, e, e.Customer); err != nil {
			return err
		}
		return e.WaitURL(ctx, e.RootURL())
	})
}

// loginAdmin signs in and waits for the console
func loginAdmin(ctx context.Context, e *Env) error {
	return e.Step(ctx, "log in as "+e.Admin.String(), func(ctx context.Context) error {
		if err := submitLogin(ctx, e, e.Admin); err != nil {
			return err
		}
		return e.WaitURLContains(ctx, "/admin")
	})
}

func addToCart(ctx context.Context, e *Env) error {
	return e.Step(ctx, "add a product to the cart", func(ctx context.Context) error {
		if err := e.ClickWhenReady(ctx, addToCartButton); err != nil {
			return err
		}
		_, err := e.WaitPresent(ctx, addedToCartToast)
		return err
	})
}

func openCart(ctx context.Context, e *Env) error {
	return e.Step(ctx, "open the cart", func(ctx context.Context) error {
		if err := e.Open("/cart"); err != nil {
			return err
		}
		_, err := e.WaitPresent(ctx, cartHeading)
		return err
	})
}

func openShop(ctx context.Context, e *Env) error {
	return e.Step(ctx, "open the shop", func(context.Context) error {
		return e.Open("/shop")
	})
}

// waitAll waits for each locator in turn
func waitAll(ctx context.Context, e *Env, locs ...locate.Locator) error {
	for _, l := range locs {
		if _, err := e.WaitPresent(ctx, l); err != nil {
			return err
		}
	}
	return nil
}
