// Package promo implements the tiered gift promotion rules and order
// settlement: line-item aggregation, gift evaluation, and shipping fees.
package promo

import "preorder/internal/model"

// EvaluateGift returns the number of free gift units awarded for a
// purchased quantity. Among all tiers whose threshold is met, the one with
// the largest threshold wins; tiers are not cumulative. It returns 0 when
// the gift scheme is disabled, the quantity is zero, or no tier qualifies.
//
// Thresholds are unique by construction (settings validation rejects
// duplicates at write time), but if duplicate thresholds reach evaluation
// anyway, the tier with the larger gift quantity wins.
func EvaluateGift(quantity int, settings model.PromotionSettings) int {
	if !settings.GiftEnabled || quantity <= 0 {
		return 0
	}

	bestThreshold := -1
	gift := 0
	for _, tier := range settings.GiftRules {
		if tier.Threshold > quantity {
			continue
		}
		if tier.Threshold > bestThreshold ||
			(tier.Threshold == bestThreshold && tier.GiftQuantity > gift) {
			bestThreshold = tier.Threshold
			gift = tier.GiftQuantity
		}
	}
	if bestThreshold < 0 {
		return 0
	}
	return gift
}
