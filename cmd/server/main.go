package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/saps13/sip/internal/config"
	"github.com/saps13/sip/internal/logging"
	"github.com/saps13/sip/internal/metrics"
	"github.com/saps13/sip/internal/repository"
	"github.com/saps13/sip/internal/server"
	"github.com/saps13/sip/internal/service"
	"github.com/saps13/sip/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	backend, err := supabase.NewRESTClient(supabase.Options{
		BaseURL:    cfg.Supabase.BaseURL,
		AnonKey:    cfg.Supabase.AnonKey,
		ServiceKey: cfg.Supabase.ServiceKey,
		Timeout:    cfg.Supabase.Timeout,
	})
	if err != nil {
		logger.Error("failed to create supabase client", "error", err)
		os.Exit(1)
	}

	probeCtx, probeCancel := context.WithTimeout(context.Background(), cfg.Supabase.Timeout)
	if err := backend.VerifyConnectivity(probeCtx); err != nil {
		// Startup continues; /healthz keeps reporting the backend state.
		logger.Warn("supabase connectivity probe failed", "error", err)
	}
	probeCancel()

	repo := repository.New(backend)
	sipService := service.NewSIPService(backend, repo)

	var appMetrics *metrics.Metrics
	if cfg.HTTP.MetricsEnabled {
		appMetrics = metrics.New()
	}

	handlers := server.NewSIPHandlers(logger, sipService, appMetrics)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.BackendHealthService{Client: backend},
		API:              handlers,
		Metrics:          appMetrics,
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
