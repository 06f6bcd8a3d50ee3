package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/models"
)

// ErrFixturesUnavailable means the storefront cannot honour the seed data contract
var ErrFixturesUnavailable = errors.New("storefront fixtures unavailable")

// FixtureService establishes the seed data before a run and removes what the run created
type FixtureService interface {
	Provision(ctx context.Context) error
	Teardown(ctx context.Context) error
}

// FixtureServiceImpl implements FixtureService over the storefront API
type FixtureServiceImpl struct {
	client StorefrontClient
	cfg    *config.FixturesConfig
	creds  *config.CredentialsConfig
	log    *zap.Logger
}

// NewFixtureService creates a new fixture service
func NewFixtureService(client StorefrontClient, cfg *config.FixturesConfig, creds *config.CredentialsConfig, log *zap.Logger) FixtureService {
	return &FixtureServiceImpl{
		client: client,
		cfg:    cfg,
		creds:  creds,
		log:    log,
	}
}

// Provision seeds the store when asked, checks that both accounts can sign in
// and archives products left behind by earlier aborted runs
func (s *FixtureServiceImpl) Provision(ctx context.Context) error {
	if s.cfg.Seed {
		seeded, err := s.client.Seed(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFixturesUnavailable, err)
		}
		s.log.Info("storefront seeded",
			zap.Int("products", seeded.Counts.Products),
			zap.Int("users", seeded.Counts.Users),
			zap.Int("orders", seeded.Counts.Orders),
		)
	}

	if s.cfg.Preflight {
		for _, account := range []struct {
			role string
			cred models.Credential
		}{
			{"customer", s.creds.Customer},
			{"admin", s.creds.Admin},
		} {
			if _, err := s.client.Login(ctx, account.cred); err != nil {
				return fmt.Errorf("%w: %s account %s cannot sign in: %w", ErrFixturesUnavailable, account.role, account.cred, err)
			}
			s.log.Debug("seed account verified", zap.String("role", account.role), zap.Stringer("email", account.cred))
		}
	}

	if s.cfg.Cleanup {
		if _, err := s.sweep(ctx); err != nil {
			return fmt.Errorf("%w: leftover cleanup: %w", ErrFixturesUnavailable, err)
		}
	}
	return nil
}

// Teardown archives every active product the run created
func (s *FixtureServiceImpl) Teardown(ctx context.Context) error {
	if !s.cfg.Cleanup {
		return nil
	}
	if _, err := s.sweep(ctx); err != nil {
		return fmt.Errorf("failed to clean up test products: %w", err)
	}
	return nil
}

// sweep archives active products named with the test prefix and returns how many it archived
func (s *FixtureServiceImpl) sweep(ctx context.Context) (int, error) {
	if _, err := s.client.Login(ctx, s.creds.Admin); err != nil {
		return 0, err
	}

	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return 0, err
	}

	var errs []error
	archived := 0
	for _, p := range products {
		if !p.Active() || !strings.HasPrefix(p.Name, s.cfg.ProductPrefix) {
			continue
		}
		if err := s.client.ArchiveProduct(ctx, p.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		archived++
		s.log.Info("test product archived", zap.String("id", p.ID), zap.String("name", p.Name))
	}
	return archived, errors.Join(errs...)
}
