package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/adyen/storefront-e2e/internal/locate"
)

// RegistrationPassword is used for every synthesized account
const RegistrationPassword = "password123"

// RegistrationEmail derives a unique address from the clock, one per second
func RegistrationEmail(now time.Time) string {
	return fmt.Sprintf("test_%d@example.com", now.Unix())
}

func registration() Scenario {
	return Scenario{
		Number:      1,
		Slug:        "registration",
		Description: "register a fresh account and reach the email confirmation prompt",
		Run: func(ctx context.Context, e *Env) error {
			email := RegistrationEmail(e.Now())

			if err := e.Step(ctx, "open registration", func(context.Context) error {
				return e.Open("/register")
			}); err != nil {
				return err
			}

			if err := e.Step(ctx, "fill registration form", func(ctx context.Context) error {
				if err := e.Type(ctx, emailInput, email); err != nil {
					return err
				}
				passwords, err := e.FindAll(passwordInput)
				if err != nil {
					return err
				}
				if len(passwords) < 2 {
					return &locate.NotFoundError{
						Locator: passwordInput,
						Last:    fmt.Errorf("want password and confirmation fields, found %d", len(passwords)),
					}
				}
				for _, p := range passwords[:2] {
					if err := p.Fill(RegistrationPassword); err != nil {
						return err
					}
				}
				return nil
			}); err != nil {
				return err
			}

			if err := e.Step(ctx, "submit registration", func(ctx context.Context) error {
				return e.Click(ctx, createAccountButton)
			}); err != nil {
				return err
			}

			if err := e.Step(ctx, "wait for email confirmation", func(ctx context.Context) error {
				_, err := e.WaitPresent(ctx, confirmEmailPrompt)
				return err
			}); err != nil {
				return err
			}

			e.Note("registered %s", email)
			return nil
		},
	}
}
