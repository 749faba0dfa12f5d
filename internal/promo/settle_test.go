package promo

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"preorder/internal/model"
)

func shippingSettings(threshold int, fee int64) model.PromotionSettings {
	return model.PromotionSettings{
		FreeShippingThreshold: threshold,
		ShippingFee:           decimal.NewFromInt(fee),
	}
}

func itemsOf(quantity int, price int64) []model.LineItem {
	return []model.LineItem{{Quantity: quantity, UnitPrice: decimal.NewFromInt(price)}}
}

func TestSettleFreeShippingBoundary(t *testing.T) {
	settings := shippingSettings(20, 50)

	tests := []struct {
		quantity int
		free     bool
		fee      int64
	}{
		{19, false, 50},
		{20, true, 0},
		{21, true, 0},
	}
	for _, tt := range tests {
		s, err := Settle(itemsOf(tt.quantity, 10), settings)
		if err != nil {
			t.Fatalf("Settle(qty=%d) returned error: %v", tt.quantity, err)
		}
		if s.FreeShipping != tt.free {
			t.Errorf("Settle(qty=%d).FreeShipping = %v, want %v", tt.quantity, s.FreeShipping, tt.free)
		}
		if !s.ShippingFee.Equal(decimal.NewFromInt(tt.fee)) {
			t.Errorf("Settle(qty=%d).ShippingFee = %s, want %d", tt.quantity, s.ShippingFee, tt.fee)
		}
	}
}

func TestSettleGiftAndShippingIndependent(t *testing.T) {
	// The gift tiers and the legacy free-shipping threshold are separate
	// schemes: crossing one must not affect the other.
	settings := shippingSettings(20, 50)
	settings.GiftEnabled = true
	settings.GiftRules = []model.ThresholdTier{{Threshold: 5, GiftQuantity: 1}}

	s, err := Settle(itemsOf(10, 10), settings)
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if s.GiftQuantity != 1 {
		t.Errorf("gift quantity = %d, want 1", s.GiftQuantity)
	}
	if s.FreeShipping {
		t.Error("10 units must not qualify for free shipping at threshold 20")
	}

	s, err = Settle(itemsOf(20, 10), settings)
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if !s.FreeShipping {
		t.Error("20 units must qualify for free shipping at threshold 20")
	}
	if s.GiftQuantity != 1 {
		t.Errorf("gift quantity = %d, want 1 (shipping threshold grants no gifts)", s.GiftQuantity)
	}
}

func TestSettleNoGiftRules(t *testing.T) {
	// With no tier list configured, only the legacy threshold applies and
	// it governs shipping, never gifts.
	settings := shippingSettings(10, 30)
	settings.GiftEnabled = true

	s, err := Settle(itemsOf(15, 5), settings)
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if s.GiftQuantity != 0 {
		t.Errorf("gift quantity = %d, want 0 without gift rules", s.GiftQuantity)
	}
	if !s.FreeShipping || !s.ShippingFee.IsZero() {
		t.Errorf("15 units over threshold 10 should ship free, got fee %s", s.ShippingFee)
	}
}

func TestSettleTotals(t *testing.T) {
	settings := shippingSettings(100, 50)
	items := []model.LineItem{
		{Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		{Quantity: 3, UnitPrice: decimal.NewFromInt(5)},
	}

	s, err := Settle(items, settings)
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if s.TotalQuantity != 5 {
		t.Errorf("total quantity = %d, want 5", s.TotalQuantity)
	}
	if !s.TotalAmount.Equal(decimal.NewFromInt(35)) {
		t.Errorf("total amount = %s, want 35", s.TotalAmount)
	}
}

func TestSettleInvalidItems(t *testing.T) {
	_, err := Settle(itemsOf(0, 10), shippingSettings(20, 50))
	if !errors.Is(err, ErrInvalidLineItem) {
		t.Errorf("Settle with invalid items error = %v, want ErrInvalidLineItem", err)
	}
}

func TestSettleIdempotent(t *testing.T) {
	settings := shippingSettings(20, 50)
	settings.GiftEnabled = true
	settings.GiftRules = []model.ThresholdTier{
		{Threshold: 15, GiftQuantity: 1},
		{Threshold: 30, GiftQuantity: 3},
	}
	items := []model.LineItem{
		{Quantity: 7, UnitPrice: decimal.NewFromInt(12)},
		{Quantity: 9, UnitPrice: decimal.NewFromInt(4)},
	}

	first, err := Settle(items, settings)
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	second, err := Settle(items, settings)
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Settle diverged: %+v vs %+v", first, second)
	}
}
