package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"preorder/internal/service"
)

type menuItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   *bool           `json:"available"`
}

func (r menuItemRequest) validate() error {
	if r.Name == "" {
		return errors.New("name required")
	}
	if r.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	return nil
}

func (r menuItemRequest) available() bool {
	if r.Available == nil {
		return true
	}
	return *r.Available
}

func ListMenuHandler(menuSvc *service.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := menuSvc.List(r.Context())
		if err != nil {
			slog.Error("list menu failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}

func CreateMenuItemHandler(menuSvc *service.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req menuItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := req.validate(); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		item, err := menuSvc.Create(r.Context(), req.Name, req.Description, req.Price, req.available())
		if err != nil {
			slog.Error("create menu item failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, item)
	}
}

func UpdateMenuItemHandler(menuSvc *service.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req menuItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := req.validate(); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		item, err := menuSvc.Update(r.Context(), id, req.Name, req.Description, req.Price, req.available())
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMenuItemNotFound):
				http.Error(w, "menu item not found", http.StatusNotFound)
			default:
				slog.Error("update menu item failed", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

func DeleteMenuItemHandler(menuSvc *service.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := menuSvc.Delete(r.Context(), id); err != nil {
			switch {
			case errors.Is(err, service.ErrMenuItemNotFound):
				http.Error(w, "menu item not found", http.StatusNotFound)
			default:
				slog.Error("delete menu item failed", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}
