package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/config"
	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/core"
	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/logging"
	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_file_size", cfg.Upload.MaxFileSize,
		"max_concurrent_runs", cfg.Upload.MaxConcurrent,
		"max_horizon", cfg.Forecast.MaxHorizon,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"api_key_required", cfg.Security.RequireAPIKey,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	service := core.NewService(core.ServiceOptions{
		Policy: core.Policy{
			DefaultHorizon:  cfg.Forecast.DefaultHorizon,
			MaxHorizon:      cfg.Forecast.MaxHorizon,
			MinObservations: cfg.Forecast.MinObservations,
		},
		MaxFileSize:   cfg.Upload.MaxFileSize,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
		Timeout:       cfg.Upload.Timeout,
	})

	server := web.NewServer(cfg, service)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if active := service.Limiter().ActiveCount(); active > 0 {
			slog.Info("waiting for forecast runs to complete", "active", active)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown incomplete", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
