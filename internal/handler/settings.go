package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"preorder/internal/model"
	"preorder/internal/service"
)

func GetSettingsHandler(settingsSvc *service.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := settingsSvc.Get(r.Context())
		if err != nil {
			slog.Error("get settings failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, settings)
	}
}

// ReplaceSettingsHandler swaps the promotion settings in full and echoes
// the accepted record back.
func ReplaceSettingsHandler(settingsSvc *service.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.PromotionSettings
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		settings, err := settingsSvc.Replace(r.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrInvalidSettings):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				slog.Error("replace settings failed", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, settings)
	}
}
