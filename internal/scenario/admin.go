package scenario

import (
	"context"
	"fmt"

	"github.com/adyen/storefront-e2e/internal/locate"
)

const stepProductRoundTrip = "product create, rename and remove"

func adminDashboard() Scenario {
	return Scenario{
		Number:      6,
		Slug:        "admin-dashboard",
		Description: "admin lands on the console with Inventory, Orders and Personnel tabs",
		Run: func(ctx context.Context, e *Env) error {
			if err := loginAdmin(ctx, e); err != nil {
				return err
			}
			return e.Step(ctx, "see dashboard", func(ctx context.Context) error {
				return waitAll(ctx, e, dashboardHead, inventoryTab, ordersTab, personnelTab)
			})
		},
	}
}

func adminProductCRUD() Scenario {
	return Scenario{
		Number:      7,
		Slug:        "admin-product-crud",
		Description: "admin creates a product, renames it and removes it again",
		Tolerant:    []string{stepProductRoundTrip},
		Run: func(ctx context.Context, e *Env) error {
			if err := loginAdmin(ctx, e); err != nil {
				return err
			}
			return e.Tolerant(ctx, stepProductRoundTrip, func(ctx context.Context) error {
				return productRoundTrip(ctx, e, e.ProductPrefix)
			})
		},
	}
}

func productRoundTrip(ctx context.Context, e *Env, name string) error {
	updated := name + " Updated"

	if err := e.Step(ctx, "create "+name, func(ctx context.Context) error {
		if err := e.ClickWhenReady(ctx, newDesignButton); err != nil {
			return err
		}
		fields := []struct {
			field locate.Locator
			value string
		}{
			{nameField, name},
			{priceField, "150"},
			{stockField, "10"},
			{descriptionField, "Automated test description."},
		}
		for _, f := range fields {
			if err := e.Type(ctx, f.field, f.value); err != nil {
				return err
			}
		}
		if err := e.Click(ctx, launchDesignButton); err != nil {
			return err
		}
		_, err := e.WaitPresent(ctx, activeProductRow(name))
		return err
	}); err != nil {
		return err
	}
	e.Note("created %s", name)

	if err := e.Step(ctx, "rename to "+updated, func(ctx context.Context) error {
		row, err := e.Find(ctx, activeProductRow(name))
		if err != nil {
			return err
		}
		modify, err := e.FindIn(ctx, row, modifyButton)
		if err != nil {
			return err
		}
		if err := modify.Click(); err != nil {
			return err
		}

		input, err := e.Find(ctx, nameField)
		if err != nil {
			return err
		}
		if err := input.Clear(); err != nil {
			return err
		}
		if err := input.Fill(updated); err != nil {
			return err
		}
		if err := e.Click(ctx, commitButton); err != nil {
			return err
		}

		if _, err := e.WaitPresent(ctx, activeProductRow(updated)); err != nil {
			return err
		}
		if err := e.WaitAbsent(ctx, activeProductRow(name)); err != nil {
			return fmt.Errorf("original name still listed: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	e.Note("renamed to %s", updated)

	if err := e.Step(ctx, "remove "+updated, func(ctx context.Context) error {
		row, err := e.Find(ctx, activeProductRow(updated))
		if err != nil {
			return err
		}
		expunge, err := e.FindIn(ctx, row, expungeButton)
		if err != nil {
			return err
		}
		if err := expunge.Click(); err != nil {
			return err
		}
		if _, err := e.AcceptAlert(ctx); err != nil {
			return err
		}
		return e.WaitAbsent(ctx, activeProductRow(updated))
	}); err != nil {
		return err
	}
	e.Note("removed %s", updated)
	return nil
}

func adminOrders() Scenario {
	return Scenario{
		Number:      8,
		Slug:        "admin-orders",
		Description: "admin opens the Orders tab and counts manageable orders",
		Run: func(ctx context.Context, e *Env) error {
			if err := loginAdmin(ctx, e); err != nil {
				return err
			}
			if err := e.Step(ctx, "open orders tab", func(ctx context.Context) error {
				if err := e.Click(ctx, ordersTab); err != nil {
					return err
				}
				_, err := e.WaitPresent(ctx, ordersList)
				return err
			}); err != nil {
				return err
			}

			return e.Step(ctx, "count orders", func(context.Context) error {
				selects, err := e.FindAll(statusControl)
				if err != nil {
					return err
				}
				if len(selects) == 0 {
					e.Note("orders tab accessible, no orders yet")
				} else {
					e.Note("found %d order(s) to manage", len(selects))
				}
				return nil
			})
		},
	}
}
