package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shopfront/internal/model"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// Prices are stored as numeric and selected as text so they can be
// parsed into decimals without a pgx codec registration.
const productColumns = `id, name, description, price::text, image, stock, created_at`

func scanProduct(row pgx.Row, p *model.Product) error {
	var price string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Image, &p.Stock, &p.CreatedAt); err != nil {
		return err
	}

	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return fmt.Errorf("failed to parse price %q: %w", price, err)
	}
	p.Price = parsed

	return nil
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("%w: query products: %v", model.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("%w: scan product: %v", model.ErrStoreUnavailable, err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("%w: iterate products: %v", model.ErrStoreUnavailable, err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, model.ErrNotFound
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("%w: query product: %v", model.ErrStoreUnavailable, err)
	}

	return &p, nil
}

// Seed inserts seed products, leaving existing rows untouched.
func (r *productRepository) Seed(ctx context.Context, products []model.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO products (id, name, description, price, image, stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.ID, p.Name, p.Description, p.Price, p.Image, p.Stock)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := 0; i < len(products); i++ {
		tag, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("product_id", products[i].ID).
				Msg("failed to seed product")
			return inserted, fmt.Errorf("%w: seed product %s: %v", model.ErrStoreUnavailable, products[i].ID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	r.logger.Debug().
		Int("count", len(products)).
		Int("inserted", inserted).
		Msg("product seed applied")

	return inserted, nil
}
