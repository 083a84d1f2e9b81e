package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/api"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/audit"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/config"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/eventsource"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/session"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	location, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	logger.Info("starting UWB dashboard",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("events_base_url", cfg.EventsBaseURL),
		slog.String("timezone", location.String()),
	)

	source := eventsource.NewClient(eventsource.Config{
		BaseURL: cfg.EventsBaseURL,
		Limit:   cfg.FetchLimit,
		Timeout: cfg.FetchTimeout,
	})
	auditLogger := audit.NewSlogLogger(logger)

	sessions := session.DefaultConfig()
	sessions.PollInterval = cfg.PollInterval
	sessions.TTL = cfg.SessionTTL
	sessions.Location = location
	sessions.OnExpire = func(snap session.Snapshot) {
		_ = auditLogger.Log(context.Background(), audit.Event{
			EventType: audit.EventSessionExpiry,
			SessionID: snap.ID,
			MemberID:  snap.MemberID,
			Success:   true,
		})
	}
	manager := session.NewManager(source, sessions, logger)

	renderer, err := web.NewRenderer(cfg.AssetPrefix(), cfg.PollInterval)
	if err != nil {
		manager.Stop()
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		Manager:        manager,
		Renderer:       renderer,
		Audit:          auditLogger,
		Location:       location,
		AssetPrefix:    cfg.AssetPrefix(),
		SessionTTL:     cfg.SessionTTL,
		LoginRateLimit: cfg.LoginRateLimit,
		SecureCookies:  cfg.IsProduction(),
	})
	router.Setup()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr), slog.String("url", source.EventsURL()))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		manager.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	done := make(chan error, 1)
	go func() { done <- router.Shutdown() }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	case <-time.After(10 * time.Second):
		logger.Warn("shutdown timed out")
	}

	logger.Info("server stopped")
	return nil
}
