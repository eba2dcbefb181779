package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the persistent collection of line items owned by one session.
// A session owns at most one cart, created lazily on first access.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SessionID uuid.UUID `json:"sessionId" db:"session_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// LineItem is a product snapshot plus the quantity held in a cart.
// Quantity is always positive while the line exists; a line at zero is
// removed, never persisted.
type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// CartState is the derived view of a cart: the line items plus totals.
// It is always recomputed wholesale from the line items and never
// patched incrementally.
type CartState struct {
	Items     []LineItem      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
}

// EmptyCartState returns the state of a cart with no line items.
func EmptyCartState() CartState {
	return CartState{
		Items: []LineItem{},
		Total: decimal.Zero,
	}
}
