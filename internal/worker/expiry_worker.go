package worker

import (
	"context"
	"log/slog"
	"time"

	"preorder/internal/service"
)

// ExpiryWorker periodically cancels pending orders that were never
// confirmed within the configured age, so abandoned preorders do not
// accumulate.
type ExpiryWorker struct {
	orderSvc *service.OrderService
	interval time.Duration
	maxAge   time.Duration
}

func NewExpiryWorker(orderSvc *service.OrderService, interval, maxAge time.Duration) *ExpiryWorker {
	return &ExpiryWorker{
		orderSvc: orderSvc,
		interval: interval,
		maxAge:   maxAge,
	}
}

func (w *ExpiryWorker) Start(ctx context.Context) {
	slog.Info("starting expiry worker", "interval", w.interval, "max_age", w.maxAge)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("expiry worker stopped")
			return
		case <-ticker.C:
			n, err := w.orderSvc.CancelStale(ctx, w.maxAge)
			if err != nil {
				slog.Error("stale order sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("cancelled stale orders", "count", n)
			}
		}
	}
}
