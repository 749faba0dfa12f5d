package promo

import (
	"github.com/shopspring/decimal"

	"preorder/internal/model"
)

// Settlement is the computed financial and promotional summary of an
// order. It is derived from the order's line items and the settings in
// effect, never stored as independent mutable state.
type Settlement struct {
	TotalQuantity int             `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	GiftQuantity  int             `json:"gift_quantity"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	FreeShipping  bool            `json:"free_shipping"`
}

// Settle aggregates an order's line items and combines the totals with
// the gift award and shipping-fee eligibility. The gift tiers and the
// legacy free-shipping threshold are independent schemes: the threshold
// waives the shipping fee only and never grants gifts. Given the same
// items and settings, Settle always produces an identical result.
func Settle(items []model.LineItem, settings model.PromotionSettings) (Settlement, error) {
	totals, err := Aggregate(items)
	if err != nil {
		return Settlement{}, err
	}

	s := Settlement{
		TotalQuantity: totals.Quantity,
		TotalAmount:   totals.Amount,
		GiftQuantity:  EvaluateGift(totals.Quantity, settings),
		ShippingFee:   decimal.Zero,
	}
	s.FreeShipping = totals.Quantity >= settings.FreeShippingThreshold
	if !s.FreeShipping {
		s.ShippingFee = settings.ShippingFee
	}
	return s, nil
}
