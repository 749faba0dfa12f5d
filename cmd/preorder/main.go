package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"preorder/internal/config"
	"preorder/internal/database"
	"preorder/internal/handler"
	"preorder/internal/mw"
	"preorder/internal/service"
	"preorder/internal/worker"
)

func main() {
	cfg := config.New()

	db, err := database.NewDB(cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(context.Background(), db)

	if err := database.InitSchema(db); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	// Services
	authSvc := service.NewAuthService(db)
	menuSvc := service.NewMenuService(db)
	orderSvc := service.NewOrderService(db)
	settingsSvc := service.NewSettingsService(db)

	// Worker
	expiryWorker := worker.NewExpiryWorker(orderSvc, cfg.ExpiryInterval, cfg.PendingOrderTTL)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Post("/api/user/register", handler.RegisterHandler(authSvc, cfg.JWTSecret))
	r.Post("/api/user/login", handler.LoginHandler(authSvc, cfg.JWTSecret))
	r.Get("/api/menu", handler.ListMenuHandler(menuSvc))
	r.Get("/api/promotion-settings", handler.GetSettingsHandler(settingsSvc))

	// Customer routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.JWTSecret))

		r.Post("/api/orders", handler.CheckoutHandler(orderSvc, settingsSvc))
		r.Get("/api/orders", handler.ListOrdersHandler(orderSvc, settingsSvc))
		r.Get("/api/orders/{id}", handler.GetOrderHandler(orderSvc, settingsSvc))
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.JWTSecret))
		r.Use(mw.RequireAdmin)

		r.Post("/api/menu", handler.CreateMenuItemHandler(menuSvc))
		r.Put("/api/menu/{id}", handler.UpdateMenuItemHandler(menuSvc))
		r.Delete("/api/menu/{id}", handler.DeleteMenuItemHandler(menuSvc))
		r.Patch("/api/orders/{id}/status", handler.UpdateOrderStatusHandler(orderSvc, settingsSvc))
		r.Put("/api/promotion-settings", handler.ReplaceSettingsHandler(settingsSvc))
	})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go expiryWorker.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
