package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPromotionSettingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings PromotionSettings
		wantErr  bool
	}{
		{
			"valid",
			PromotionSettings{
				GiftEnabled: true,
				GiftRules: []ThresholdTier{
					{Threshold: 15, GiftQuantity: 1},
					{Threshold: 20, GiftQuantity: 2},
				},
				FreeShippingThreshold: 20,
				ShippingFee:           decimal.NewFromInt(50),
			},
			false,
		},
		{"empty", PromotionSettings{}, false},
		{
			"zero threshold",
			PromotionSettings{GiftRules: []ThresholdTier{{Threshold: 0, GiftQuantity: 1}}},
			true,
		},
		{
			"negative gift quantity",
			PromotionSettings{GiftRules: []ThresholdTier{{Threshold: 5, GiftQuantity: -1}}},
			true,
		},
		{
			"duplicate thresholds",
			PromotionSettings{GiftRules: []ThresholdTier{
				{Threshold: 10, GiftQuantity: 1},
				{Threshold: 10, GiftQuantity: 2},
			}},
			true,
		},
		{
			"negative free shipping threshold",
			PromotionSettings{FreeShippingThreshold: -1},
			true,
		},
		{
			"negative shipping fee",
			PromotionSettings{ShippingFee: decimal.NewFromInt(-5)},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSettings) {
					t.Errorf("Validate() = %v, want ErrInvalidSettings", err)
				}
			} else if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
