package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shopfront/internal/model"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetOrCreateCart resolves the session's cart in a single statement.
// The DO UPDATE arm is a no-op write whose only purpose is to make
// RETURNING yield a row on the conflict path as well, so two tabs
// racing on first load both resolve to the same cart row.
func (r *cartRepository) GetOrCreateCart(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	query := `
		INSERT INTO carts (id, session_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
		RETURNING id
	`

	var cartID uuid.UUID
	err := r.pool.QueryRow(ctx, query, uuid.New(), sessionID).Scan(&cartID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("session_id", sessionID.String()).
			Msg("failed to get or create cart")
		return uuid.Nil, fmt.Errorf("%w: get or create cart: %v", model.ErrStoreUnavailable, err)
	}

	r.logger.Debug().
		Str("session_id", sessionID.String()).
		Str("cart_id", cartID.String()).
		Msg("cart resolved")

	return cartID, nil
}

// ListItems returns line items joined with product snapshots, oldest first.
func (r *cartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]model.LineItem, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price::text, p.image, p.stock, p.created_at, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("%w: query cart items: %v", model.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var items []model.LineItem
	for rows.Next() {
		var (
			item  model.LineItem
			price string
		)
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&price,
			&item.Image,
			&item.Stock,
			&item.CreatedAt,
			&item.Quantity,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("%w: scan cart item: %v", model.ErrStoreUnavailable, err)
		}

		item.Price, err = decimal.NewFromString(price)
		if err != nil {
			r.logger.Error().Err(err).Str("product_id", item.ID).Msg("failed to parse price")
			return nil, fmt.Errorf("%w: parse price: %v", model.ErrStoreUnavailable, err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("%w: iterate cart items: %v", model.ErrStoreUnavailable, err)
	}

	return items, nil
}

// UpsertItem sets the quantity for a product line, inserting it if absent.
func (r *cartRepository) UpsertItem(ctx context.Context, cartID uuid.UUID, productID string, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}

	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity
	`

	_, err := r.pool.Exec(ctx, query, uuid.New(), cartID, productID, quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", cartID.String()).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("failed to upsert cart item")
		return fmt.Errorf("%w: upsert cart item: %v", model.ErrStoreUnavailable, err)
	}

	return nil
}

// DeleteItem removes a product line from the cart.
func (r *cartRepository) DeleteItem(ctx context.Context, cartID uuid.UUID, productID string) error {
	query := `
		DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`

	_, err := r.pool.Exec(ctx, query, cartID, productID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", cartID.String()).
			Str("product_id", productID).
			Msg("failed to delete cart item")
		return fmt.Errorf("%w: delete cart item: %v", model.ErrStoreUnavailable, err)
	}

	return nil
}

// ClearCart removes every line item for the cart.
func (r *cartRepository) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	query := `
		DELETE FROM cart_items
		WHERE cart_id = $1
	`

	_, err := r.pool.Exec(ctx, query, cartID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", cartID.String()).
			Msg("failed to clear cart")
		return fmt.Errorf("%w: clear cart: %v", model.ErrStoreUnavailable, err)
	}

	return nil
}
