package promo

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"preorder/internal/model"
)

// ErrInvalidLineItem marks an order whose line items fail validation;
// such an order must never reach settlement.
var ErrInvalidLineItem = errors.New("invalid line item")

// Totals is the aggregate of an order's line items.
type Totals struct {
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// Aggregate sums quantities and monetary totals across line items using
// exact decimal arithmetic. An empty item list yields zero totals. It
// fails with ErrInvalidLineItem on a non-positive quantity or a negative
// unit price.
func Aggregate(items []model.LineItem) (Totals, error) {
	totals := Totals{Amount: decimal.Zero}
	for i, item := range items {
		if item.Quantity < 1 {
			return Totals{}, fmt.Errorf("%w: item %d: quantity must be positive, got %d", ErrInvalidLineItem, i, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return Totals{}, fmt.Errorf("%w: item %d: unit price must not be negative, got %s", ErrInvalidLineItem, i, item.UnitPrice)
		}
		totals.Quantity += item.Quantity
		totals.Amount = totals.Amount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return totals, nil
}
