package config

import (
	"fmt"

	"github.com/adyen/storefront-e2e/internal/models"
)

// CredentialsConfig holds the seeded accounts the scenarios log in with
type CredentialsConfig struct {
	Customer models.Credential
	Admin    models.Credential
}

// LoadCredentialsConfig loads seeded account credentials from environment variables.
// Defaults match the storefront's seed endpoint.
func LoadCredentialsConfig(getenv func(string) string) (*CredentialsConfig, error) {
	customer, err := models.NewCredential(
		stringOr(getenv, "CUSTOMER_EMAIL", "john@example.com"),
		stringOr(getenv, "CUSTOMER_PASSWORD", "user123"),
	)
	if err != nil {
		return nil, fmt.Errorf("customer: %w", err)
	}

	admin, err := models.NewCredential(
		stringOr(getenv, "ADMIN_EMAIL", "samuelhany500@gmail.com"),
		stringOr(getenv, "ADMIN_PASSWORD", "admin123"),
	)
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}

	return &CredentialsConfig{
		Customer: customer,
		Admin:    admin,
	}, nil
}
