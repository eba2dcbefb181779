package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an item in the storefront catalogue. Products are
// owned by the catalog and read-only to the cart core.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Image       string          `json:"image" db:"image"`
	Stock       int             `json:"stock" db:"stock"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}
