package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kyleBSCS/pokedex/internal/config"
	"github.com/kyleBSCS/pokedex/internal/handler"
	"github.com/kyleBSCS/pokedex/internal/infra/client"
	"github.com/kyleBSCS/pokedex/internal/infra/observability"
	"github.com/kyleBSCS/pokedex/internal/infra/resilience"
	"github.com/kyleBSCS/pokedex/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("pokeapi_base_url", cfg.PokeAPIBaseURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("directory_ttl", cfg.DirectoryTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Int("max_page_limit", cfg.MaxPageLimit),
		zap.Strings("cors_allowed_origins", cfg.CORSAllowedOrigins),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "pokedex")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("pokeapi", client.IsBreakerNeutral)

	// --- Upstream ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	pokeAPI := client.NewPokeAPI(client.NewClient(httpClient), cfg.PokeAPIBaseURL, cb, resilienceCfg, metrics)

	// --- Services ---
	directory := service.NewDirectory(pokeAPI, cfg.DirectoryTTL, metrics, logger)
	pokedex := service.NewPokedex(pokeAPI, directory, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(pokedex, cb, handler.Options{
		MaxPageLimit:   cfg.MaxPageLimit,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
