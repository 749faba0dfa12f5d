package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"preorder/internal/model"
	"preorder/internal/mw"
	"preorder/internal/promo"
	"preorder/internal/service"
)

type checkoutRequest struct {
	Phone string                 `json:"phone"`
	Items []service.CheckoutItem `json:"items"`
}

// orderResponse embeds the settlement computed from the order's line items
// and the settings in effect at read time.
type orderResponse struct {
	model.Order
	Settlement promo.Settlement `json:"settlement"`
}

func CheckoutHandler(orderSvc *service.OrderService, settingsSvc *service.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(mw.UserCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req checkoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		order, err := orderSvc.Create(r.Context(), userID, req.Phone, req.Items)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEmptyOrder),
				errors.Is(err, service.ErrMenuItemNotFound),
				errors.Is(err, promo.ErrInvalidLineItem):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				slog.Error("checkout failed", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp, err := settleOrder(r, settingsSvc, *order)
		if err != nil {
			slog.Error("settle order failed", "order", order.ID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, resp)
	}
}

func ListOrdersHandler(orderSvc *service.OrderService, settingsSvc *service.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(mw.UserCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := orderSvc.ListByUser(r.Context(), userID)
		if err != nil {
			slog.Error("list orders failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		settings, err := settingsSvc.Get(r.Context())
		if err != nil {
			slog.Error("load settings failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for _, order := range orders {
			settlement, err := promo.Settle(order.Items, *settings)
			if err != nil {
				slog.Error("settle order failed", "order", order.ID, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			resp = append(resp, orderResponse{Order: order, Settlement: settlement})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func GetOrderHandler(orderSvc *service.OrderService, settingsSvc *service.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(mw.UserCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		id := chi.URLParam(r, "id")

		order, err := orderSvc.Get(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			default:
				slog.Error("get order failed", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		// Customers only see their own orders; admins see all.
		if order.UserID != userID && !mw.IsAdmin(r.Context()) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}

		resp, err := settleOrder(r, settingsSvc, *order)
		if err != nil {
			slog.Error("settle order failed", "order", order.ID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type statusUpdateRequest struct {
	Status                string     `json:"status"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date,omitempty"`
}

func UpdateOrderStatusHandler(orderSvc *service.OrderService, settingsSvc *service.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req statusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		next, err := model.ParseOrderStatus(req.Status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		order, err := orderSvc.UpdateStatus(r.Context(), id, next, req.EstimatedDeliveryDate)
		if err != nil {
			var invalid *model.InvalidTransitionError
			switch {
			case errors.Is(err, service.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.As(err, &invalid):
				http.Error(w, invalid.Error(), http.StatusConflict)
			case errors.Is(err, model.ErrDeliveryDateNotAllowed):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				slog.Error("status update failed", "order", id, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp, err := settleOrder(r, settingsSvc, *order)
		if err != nil {
			slog.Error("settle order failed", "order", order.ID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func settleOrder(r *http.Request, settingsSvc *service.SettingsService, order model.Order) (*orderResponse, error) {
	settings, err := settingsSvc.Get(r.Context())
	if err != nil {
		return nil, err
	}
	settlement, err := promo.Settle(order.Items, *settings)
	if err != nil {
		return nil, err
	}
	return &orderResponse{Order: order, Settlement: settlement}, nil
}
