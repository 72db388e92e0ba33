package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bankweb"
	"bankweb/internal/auth"
	"bankweb/internal/config"
	"bankweb/internal/handler"
	"bankweb/internal/middleware"
	"bankweb/internal/repository"
	"bankweb/internal/service"
	"bankweb/internal/storage/postgres"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(bankweb.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize storage and services
	store := postgres.NewStore(pool)
	ledgerService := service.NewLedgerService(store)
	queryService := service.NewQueryService(store)
	userService := service.NewUserService(store)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Initialize handler and routes
	h := handler.New(handler.Deps{
		Cfg:           cfg,
		LedgerService: ledgerService,
		QueryService:  queryService,
		UserService:   userService,
		Tokens:        tokens,
	})

	mux := http.NewServeMux()
	h.Register(mux, middleware.Auth(tokens, userService))

	// Outer middleware chain
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	var root http.Handler = mux
	root = rateLimiter.Middleware(root)
	root = middleware.Logging()(root)
	root = middleware.Recover()(root)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      root,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	slog.Info("server stopped gracefully")
}
