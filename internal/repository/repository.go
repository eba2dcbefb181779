package repository

import (
	"context"

	"github.com/google/uuid"

	"shopfront/internal/model"
)

// ProductRepository defines the interface for catalogue data access.
// The cart core only ever reads products.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns
	// model.ErrNotFound if no such product exists.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Seed inserts the given products, skipping IDs that already
	// exist. Returns the number of rows actually inserted.
	Seed(ctx context.Context, products []model.Product) (int, error)
}

// CartRepository is the store gateway for carts and their line items.
// All operations require a valid session identity and perform no
// retries; retry policy belongs to the caller.
type CartRepository interface {
	// GetOrCreateCart resolves the cart owned by the session,
	// creating it atomically if absent. Concurrent calls for the same
	// session resolve to the same cart id.
	GetOrCreateCart(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error)

	// ListItems returns the cart's line items joined with product
	// snapshots, ordered by creation time ascending.
	ListItems(ctx context.Context, cartID uuid.UUID) ([]model.LineItem, error)

	// UpsertItem sets the quantity for a product in the cart,
	// creating the line if absent. Quantity must be positive.
	UpsertItem(ctx context.Context, cartID uuid.UUID, productID string, quantity int) error

	// DeleteItem removes the line for the product entirely. Deleting
	// an absent line is a no-op.
	DeleteItem(ctx context.Context, cartID uuid.UUID, productID string) error

	// ClearCart removes all line items for the cart.
	ClearCart(ctx context.Context, cartID uuid.UUID) error
}
