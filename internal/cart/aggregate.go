package cart

import (
	"github.com/shopspring/decimal"

	"shopfront/internal/model"
)

// Aggregate recomputes the derived cart state from a list of line items.
// It is pure and order-independent: the same multiset of items always
// yields the same item count and total. Totals use decimal arithmetic,
// so repeated aggregation never accumulates rounding drift.
func Aggregate(items []model.LineItem) model.CartState {
	state := model.CartState{
		Items: items,
		Total: decimal.Zero,
	}
	if state.Items == nil {
		state.Items = []model.LineItem{}
	}

	for _, item := range items {
		state.ItemCount += item.Quantity
		state.Total = state.Total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return state
}
