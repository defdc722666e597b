package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sifan077/linkpulse/config"
	"github.com/sifan077/linkpulse/internal/infra/logger"
	infraPostgres "github.com/sifan077/linkpulse/internal/infra/postgres"
	"go.uber.org/zap"
)

// migrate creates or updates the links and click_logs tables, then exits.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.MustInit(logger.Config{
		Development: cfg.App.Development(),
		Level:       cfg.App.LogLevel,
		Service:     "linkpulse-migrate",
	})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	gormDB, err := infraPostgres.NewGorm(pool, log)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}

	if err := infraPostgres.Migrate(ctx, gormDB); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database schema is up to date")
}
