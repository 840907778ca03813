// Package main implements the entry point for the Waypoint API server,
// which runs the exploration task queue and exposes it over HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/mcollier/waypoint-api/internal/config"
	"github.com/mcollier/waypoint-api/internal/platform/logger"
)

func main() {
	app, err := initializeApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, and wires the
// application components together.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"queue_concurrency", cfg.Queue.Concurrency,
		"queue_retry_limit", cfg.Queue.RetryLimit)

	return newApplication(ctx, cfg, appLogger)
}
