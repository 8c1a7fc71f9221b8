package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/bharatvarsh/bhoomi/api"
	"github.com/bharatvarsh/bhoomi/internal/app"
	"github.com/bharatvarsh/bhoomi/internal/config"
	"github.com/bharatvarsh/bhoomi/internal/log"
)

// runServe initializes the application and starts the HTTP API server.
// Built-in canon is seeded on startup so a fresh database answers lore
// queries immediately.
func runServe(cfg *config.Config, logger log.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting bhoomi server", "version", AppVersion)

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	if seeded, err := a.Seeder.SeedCanon(ctx); err != nil {
		return fmt.Errorf("seeding canon: %w", err)
	} else {
		logger.Info("canon seeded", "chunks", seeded)
	}

	srv, err := api.NewServer(api.ServerConfig{
		Pinger:         a.DBPool,
		Pipeline:       a.Pipeline,
		Gate:           a.Gate,
		Posts:          a.Posts,
		InternalSecret: cfg.InternalSecret,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	return srv.Run(ctx, cfg.Addr)
}
