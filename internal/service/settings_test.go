package service

import (
	"errors"
	"testing"
)

func TestDecodeGiftRules(t *testing.T) {
	tiers, err := decodeGiftRules([]byte(`[{"threshold":15,"quantity":1},{"threshold":30,"quantity":3}]`))
	if err != nil {
		t.Fatalf("decodeGiftRules returned error: %v", err)
	}
	if len(tiers) != 2 {
		t.Fatalf("decoded %d tiers, want 2", len(tiers))
	}
	if tiers[0].Threshold != 15 || tiers[0].GiftQuantity != 1 {
		t.Errorf("tier 0 = %+v, want threshold 15 quantity 1", tiers[0])
	}
	if tiers[1].Threshold != 30 || tiers[1].GiftQuantity != 3 {
		t.Errorf("tier 1 = %+v, want threshold 30 quantity 3", tiers[1])
	}
}

func TestDecodeGiftRulesEmpty(t *testing.T) {
	tiers, err := decodeGiftRules([]byte(`[]`))
	if err != nil {
		t.Fatalf("decodeGiftRules returned error: %v", err)
	}
	if len(tiers) != 0 {
		t.Errorf("decoded %d tiers, want 0", len(tiers))
	}
}

func TestDecodeGiftRulesMalformed(t *testing.T) {
	// A corrupted stored payload must surface as a configuration error,
	// never reach the evaluator.
	tests := []struct {
		name string
		raw  string
	}{
		{"not an array", `{"not":"an array"}`},
		{"truncated", `[{"threshold":15,`},
		{"wrong element type", `["fifteen"]`},
		{"empty payload", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeGiftRules([]byte(tt.raw))
			if !errors.Is(err, ErrBadRuleConfig) {
				t.Errorf("decodeGiftRules(%q) error = %v, want ErrBadRuleConfig", tt.raw, err)
			}
		})
	}
}
