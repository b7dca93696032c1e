package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/piwi3910/LoadPlan/internal/api"
	"github.com/piwi3910/LoadPlan/internal/logging"
	"github.com/piwi3910/LoadPlan/internal/project"
)

// main wires the config, logger and metrics registry and serves the
// planning API until SIGINT or SIGTERM.
func main() {
	envErr := godotenv.Load()

	configPath := getEnv("LOADPLAN_CONFIG", project.DefaultConfigPath())
	cfg, err := project.LoadAppConfig(configPath)
	closer := logging.Setup(logging.ConfigFromApp("loadplan-server", cfg))
	defer closer.Close()

	if envErr != nil {
		slog.Info("no .env file found, using environment variables")
	}
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	if err := cfg.Settings.Validate(); err != nil {
		slog.Error("invalid default settings", "error", err)
		os.Exit(1)
	}

	metrics := api.NewMetrics()
	router := api.NewRouter(cfg.Container(), cfg.Settings, metrics)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", srv.Addr, "container", cfg.Container().Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
