package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidSettings marks promotion settings rejected at write time.
var ErrInvalidSettings = errors.New("invalid promotion settings")

// ThresholdTier awards GiftQuantity free units once an order's total
// quantity reaches Threshold. The JSON keys match the persisted rule format.
type ThresholdTier struct {
	Threshold    int `json:"threshold"`
	GiftQuantity int `json:"quantity"`
}

// PromotionSettings is the single active promotion configuration.
// GiftRules drive the tiered gift award; FreeShippingThreshold and
// ShippingFee are the legacy single-tier scheme that governs shipping
// fees only, independent of the gift tiers.
type PromotionSettings struct {
	GiftEnabled           bool            `json:"gift_enabled"`
	GiftRules             []ThresholdTier `json:"gift_rules"`
	PromotionText         string          `json:"promotion_text,omitempty"`
	FreeShippingThreshold int             `json:"free_shipping_threshold"`
	ShippingFee           decimal.Decimal `json:"shipping_fee"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// Validate rejects malformed tier configuration before it is persisted:
// thresholds below 1, negative gift quantities, duplicate thresholds, and
// negative shipping parameters.
func (s PromotionSettings) Validate() error {
	seen := make(map[int]bool, len(s.GiftRules))
	for i, tier := range s.GiftRules {
		if tier.Threshold < 1 {
			return fmt.Errorf("%w: tier %d: threshold must be at least 1", ErrInvalidSettings, i)
		}
		if tier.GiftQuantity < 0 {
			return fmt.Errorf("%w: tier %d: gift quantity must not be negative", ErrInvalidSettings, i)
		}
		if seen[tier.Threshold] {
			return fmt.Errorf("%w: duplicate threshold %d", ErrInvalidSettings, tier.Threshold)
		}
		seen[tier.Threshold] = true
	}
	if s.FreeShippingThreshold < 0 {
		return fmt.Errorf("%w: free shipping threshold must not be negative", ErrInvalidSettings)
	}
	if s.ShippingFee.IsNegative() {
		return fmt.Errorf("%w: shipping fee must not be negative", ErrInvalidSettings)
	}
	return nil
}
