package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"medshop/internal/cache"
	"medshop/internal/config"
	"medshop/internal/database"
	"medshop/internal/dberr"
	"medshop/internal/handlers"
	"medshop/internal/middleware"
	"medshop/internal/router"
	"medshop/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	limiter, stop := writeLimiter(cfg)
	defer stop()

	dbx := sqlx.NewDb(db, "pgx")
	api := handlers.NewAPI(
		store.NewCategoryStore(dbx),
		store.NewProductStore(dbx),
		store.NewUserStore(dbx),
		store.NewOrderStore(dbx),
		store.NewProcedureStore(dbx),
		store.NewFunctionStore(dbx),
		dberr.NewTranslator(dberr.Config{
			ApplicationThreshold: cfg.ErrorThreshold,
			IncludeDetails:       cfg.ErrorDetails,
		}),
	)

	r := router.New(api, router.Options{
		CORSOrigins:  cfg.CORSOrigins,
		WriteLimiter: limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}

// writeLimiter builds the limiter for write endpoints. A Valkey backend
// that cannot be reached falls back to the in-process limiter.
func writeLimiter(c *config.Config) (middleware.Limiter, func()) {
	if c.RateLimitWrites == 0 {
		slog.Info("write rate limiting disabled")
		return nil, func() {}
	}

	if c.RateLimitBackend == "valkey" {
		client, err := cache.ConnectValkey(c.ValkeyHost, c.ValkeyPort, c.ValkeyPassword)
		if err == nil {
			slog.Info("write rate limiting", "backend", "valkey", "limit", c.RateLimitWrites, "window", c.RateLimitWindow)
			return cache.NewWindowLimiter(client, c.RateLimitWrites, c.RateLimitWindow), func() { client.Close() }
		}
		slog.Warn("valkey unavailable, using in-memory rate limiter", "error", err)
	}

	rl := middleware.NewRateLimiter(c.RateLimitWrites, c.RateLimitWindow)
	slog.Info("write rate limiting", "backend", "memory", "limit", c.RateLimitWrites, "window", c.RateLimitWindow)
	return rl, rl.Stop
}
