package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"shopfront/internal/repository"
)

// Seeder populates the products table from a seed file at startup.
// Existing products are never overwritten; the catalogue is read-only
// to everything else in this service.
type Seeder struct {
	loader Loader
	repo   repository.ProductRepository
	logger zerolog.Logger
}

// NewSeeder creates a catalogue seeder.
func NewSeeder(loader Loader, repo repository.ProductRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader: loader,
		repo:   repo,
		logger: logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Run loads the seed file and inserts any products not already present.
func (s *Seeder) Run(ctx context.Context, path string) error {
	products, err := s.loader.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load product seed: %w", err)
	}

	inserted, err := s.repo.Seed(ctx, products)
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	s.logger.Info().
		Int("seed_products", len(products)).
		Int("inserted", inserted).
		Msg("catalogue seed complete")

	return nil
}
