package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"preorder/internal/model"
)

// ErrBadRuleConfig marks a stored gift-rule payload that no longer parses.
// Reads surface it as a configuration error instead of failing evaluation.
var ErrBadRuleConfig = errors.New("malformed gift rule configuration")

// SettingsService owns the singleton promotion settings record. Settings
// are loaded once per request and passed down explicitly; nothing in the
// order path reads them as ambient state.
type SettingsService struct {
	db *sql.DB
}

func NewSettingsService(db *sql.DB) *SettingsService {
	return &SettingsService{db: db}
}

func (s *SettingsService) Get(ctx context.Context) (*model.PromotionSettings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT gift_enabled, gift_rules, promotion_text, free_shipping_threshold, shipping_fee, updated_at
		FROM promotion_settings
		WHERE id = 1
	`)

	var settings model.PromotionSettings
	var rules []byte
	if err := row.Scan(&settings.GiftEnabled, &rules, &settings.PromotionText,
		&settings.FreeShippingThreshold, &settings.ShippingFee, &settings.UpdatedAt); err != nil {
		return nil, fmt.Errorf("get promotion settings: %w", err)
	}

	tiers, err := decodeGiftRules(rules)
	if err != nil {
		return nil, err
	}
	settings.GiftRules = tiers

	return &settings, nil
}

// decodeGiftRules parses the persisted gift-rule payload. A payload that
// no longer parses surfaces as ErrBadRuleConfig so the read path reports
// a configuration error instead of handing garbage to the evaluator.
func decodeGiftRules(raw []byte) ([]model.ThresholdTier, error) {
	var tiers []model.ThresholdTier
	if err := json.Unmarshal(raw, &tiers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRuleConfig, err)
	}
	return tiers, nil
}

// Replace swaps the active settings in full; there are no partial updates.
// The tier list is validated before anything is written.
func (s *SettingsService) Replace(ctx context.Context, settings model.PromotionSettings) (*model.PromotionSettings, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	rules := settings.GiftRules
	if rules == nil {
		rules = []model.ThresholdTier{}
	}
	encoded, err := json.Marshal(rules)
	if err != nil {
		return nil, fmt.Errorf("encode gift rules: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO promotion_settings (id, gift_enabled, gift_rules, promotion_text, free_shipping_threshold, shipping_fee, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			gift_enabled = EXCLUDED.gift_enabled,
			gift_rules = EXCLUDED.gift_rules,
			promotion_text = EXCLUDED.promotion_text,
			free_shipping_threshold = EXCLUDED.free_shipping_threshold,
			shipping_fee = EXCLUDED.shipping_fee,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`, settings.GiftEnabled, encoded, settings.PromotionText,
		settings.FreeShippingThreshold, settings.ShippingFee, time.Now())

	if err := row.Scan(&settings.UpdatedAt); err != nil {
		return nil, fmt.Errorf("save promotion settings: %w", err)
	}
	settings.GiftRules = rules

	return &settings, nil
}
