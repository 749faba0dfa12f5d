package promo

import (
	"math/rand"
	"testing"

	"preorder/internal/model"
)

func giftSettings(tiers ...model.ThresholdTier) model.PromotionSettings {
	return model.PromotionSettings{
		GiftEnabled: true,
		GiftRules:   tiers,
	}
}

func TestEvaluateGift(t *testing.T) {
	settings := giftSettings(
		model.ThresholdTier{Threshold: 15, GiftQuantity: 1},
		model.ThresholdTier{Threshold: 20, GiftQuantity: 2},
		model.ThresholdTier{Threshold: 30, GiftQuantity: 3},
	)

	tests := []struct {
		quantity int
		want     int
	}{
		{0, 0},
		{1, 0},
		{14, 0},
		{15, 1},
		{19, 1},
		{20, 2},
		{29, 2},
		{30, 3},
		{45, 3}, // no stacking beyond the top tier
	}
	for _, tt := range tests {
		if got := EvaluateGift(tt.quantity, settings); got != tt.want {
			t.Errorf("EvaluateGift(%d) = %d, want %d", tt.quantity, got, tt.want)
		}
	}
}

func TestEvaluateGiftDisabled(t *testing.T) {
	settings := giftSettings(model.ThresholdTier{Threshold: 5, GiftQuantity: 1})
	settings.GiftEnabled = false

	if got := EvaluateGift(100, settings); got != 0 {
		t.Errorf("EvaluateGift with gifts disabled = %d, want 0", got)
	}
}

func TestEvaluateGiftNoTiers(t *testing.T) {
	if got := EvaluateGift(100, giftSettings()); got != 0 {
		t.Errorf("EvaluateGift with no tiers = %d, want 0", got)
	}
}

func TestEvaluateGiftTierOrderIrrelevant(t *testing.T) {
	settings := giftSettings(
		model.ThresholdTier{Threshold: 30, GiftQuantity: 3},
		model.ThresholdTier{Threshold: 15, GiftQuantity: 1},
		model.ThresholdTier{Threshold: 20, GiftQuantity: 2},
	)

	if got := EvaluateGift(25, settings); got != 2 {
		t.Errorf("EvaluateGift(25) with unsorted tiers = %d, want 2", got)
	}
}

func TestEvaluateGiftDuplicateThreshold(t *testing.T) {
	// Duplicate thresholds are rejected at write time, but bad
	// configuration data must still resolve deterministically: the larger
	// gift quantity wins.
	settings := giftSettings(
		model.ThresholdTier{Threshold: 10, GiftQuantity: 1},
		model.ThresholdTier{Threshold: 10, GiftQuantity: 4},
		model.ThresholdTier{Threshold: 10, GiftQuantity: 2},
	)

	if got := EvaluateGift(12, settings); got != 4 {
		t.Errorf("EvaluateGift with duplicate thresholds = %d, want 4", got)
	}
}

func TestEvaluateGiftMonotonic(t *testing.T) {
	// With unique thresholds and non-decreasing gift quantities at higher
	// thresholds, the award never decreases as the quantity grows.
	rng := rand.New(rand.NewSource(1))

	for run := 0; run < 100; run++ {
		tierCount := 1 + rng.Intn(5)
		tiers := make([]model.ThresholdTier, 0, tierCount)
		threshold, gift := 0, 0
		for i := 0; i < tierCount; i++ {
			threshold += 1 + rng.Intn(10)
			gift += rng.Intn(4)
			tiers = append(tiers, model.ThresholdTier{Threshold: threshold, GiftQuantity: gift})
		}
		settings := giftSettings(tiers...)

		prev := 0
		for q := 0; q <= threshold+10; q++ {
			got := EvaluateGift(q, settings)
			if got < prev {
				t.Fatalf("run %d: EvaluateGift(%d) = %d dropped below EvaluateGift(%d) = %d, tiers %v",
					run, q, got, q-1, prev, tiers)
			}
			prev = got
		}
	}
}
