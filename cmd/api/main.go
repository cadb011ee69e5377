package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/josh-kwaku/ledger-write-service/internal/app"
	"github.com/josh-kwaku/ledger-write-service/internal/config"
	"github.com/josh-kwaku/ledger-write-service/internal/handler"
	"github.com/josh-kwaku/ledger-write-service/internal/logging"
	"github.com/josh-kwaku/ledger-write-service/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		slog.Error("ledger api exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init("ledger-api", cfg.LogLevel, cfg.AppEnv)

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("initialise ledger: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("failed to release resources", "error", err)
		}
	}()

	mux := http.NewServeMux()
	registerRoutes(mux, a)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.Chain(mux, middleware.Recovery, middleware.Tracing, middleware.Logging),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", addr, "storage_backend", a.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	}

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

func registerRoutes(mux *http.ServeMux, a *app.App) {
	health := handler.NewHealthHandler(nil, a.Backend)
	if a.DB != nil {
		health = handler.NewHealthHandler(a.DB, a.Backend)
	}
	mux.HandleFunc("GET /health", health.Liveness)
	mux.HandleFunc("GET /health/ready", health.Readiness)

	transactions := handler.NewTransactionHandler(a.Ledger)
	mux.HandleFunc("POST /api/v1/transactions", transactions.Create)
	mux.HandleFunc("GET /api/v1/transactions", transactions.List)
	mux.HandleFunc("GET /api/v1/transactions/balance", transactions.Balance)
	mux.HandleFunc("POST /api/v1/transactions/import", transactions.Import)
	mux.HandleFunc("DELETE /api/v1/transactions/{id}", transactions.Delete)
}
