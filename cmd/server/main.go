package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/sifan077/linkpulse/config"
	apprepository "github.com/sifan077/linkpulse/internal/app/repository"
	appserver "github.com/sifan077/linkpulse/internal/app/server"
	appservice "github.com/sifan077/linkpulse/internal/app/service"
	"github.com/sifan077/linkpulse/internal/infra/logger"
	infraNATS "github.com/sifan077/linkpulse/internal/infra/nats"
	infraPostgres "github.com/sifan077/linkpulse/internal/infra/postgres"
	infraPrometheus "github.com/sifan077/linkpulse/internal/infra/prometheus"
	infraRedis "github.com/sifan077/linkpulse/internal/infra/redis"
	"go.uber.org/zap"
)

func main() {
	startedAt := time.Now()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.MustInit(logger.Config{
		Development: cfg.App.Development(),
		Level:       cfg.App.LogLevel,
		Service:     "linkpulse",
	})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Configuration loaded successfully",
		zap.String("env", cfg.App.Env),
		zap.String("base_url", cfg.Server.BaseURL),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("database_url_set", cfg.Postgres.URL != ""),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.String("redis_host", cfg.Redis.Host),
		zap.String("nats_host", cfg.NATS.Host),
	)

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()
	log.Info("Connected to Postgres successfully")

	gormDB, err := infraPostgres.NewGorm(pool, log)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}

	if cfg.App.MigrateOnStart {
		if err := infraPostgres.Migrate(ctx, gormDB); err != nil {
			log.Fatal("Failed to run database migrations", zap.Error(err))
		}
		log.Info("Database schema is up to date")
	}

	linkRepo := apprepository.NewLinkRepository(gormDB)
	clickRepo := apprepository.NewClickLogRepository(gormDB)

	filter := appservice.NewCodeFilter(cfg.CodeFilter.Capacity, cfg.CodeFilter.FalsePositiveRate)
	if n, err := filter.Seed(ctx, linkRepo); err != nil {
		log.Warn("Failed to seed short code filter", zap.Error(err))
	} else {
		log.Info("Short code filter seeded", zap.Int("codes", n))
	}

	var (
		redisClient *redis.Client
		linkCache   appservice.LinkCache
	)
	if cfg.Redis.Enabled() {
		redisClient, err = infraRedis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		linkCache = infraRedis.NewLinkCache(redisClient, cfg.Redis.CacheTTL)
		log.Info("Connected to Redis successfully")
	} else {
		log.Info("Redis not configured, running without link cache and rate limiting")
	}

	var events appservice.EventPublisher
	if cfg.NATS.Enabled() {
		var natsConn *nats.Conn
		var js nats.JetStreamContext
		natsConn, js, err = infraNATS.Connect(cfg.NATS, log)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer natsConn.Drain()

		publisher := appservice.NewClickPublisher(js)
		if err := publisher.EnsureStream(); err != nil {
			log.Fatal("Failed to prepare click stream", zap.Error(err))
		}
		events = publisher
		log.Info("Connected to NATS successfully")
	} else {
		log.Info("NATS not configured, click events are disabled")
	}

	if !cfg.App.Development() {
		promServer := infraPrometheus.NewServer(cfg.Prometheus, nil)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	linkService := appservice.NewLinkService(appservice.LinkServiceDeps{
		Logger:  log,
		Links:   linkRepo,
		Clicks:  clickRepo,
		Cache:   linkCache,
		Filter:  filter,
		BaseURL: cfg.Server.BaseURL,
	})
	redirectService := appservice.NewRedirectService(appservice.RedirectDeps{
		Logger: log,
		Links:  linkRepo,
		Cache:  linkCache,
		Events: events,
	})

	server := appserver.New(appserver.Dependencies{
		Logger:    log,
		DB:        pool,
		Redis:     redisClient,
		Links:     linkService,
		Redirects: redirectService,
		BaseURL:   cfg.Server.BaseURL,
		RateLimit: cfg.RateLimit,
		StartedAt: startedAt,

		CORSOrigins: cfg.Server.CORSAllowOrigins,
	})

	listenErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", cfg.Server.Addr()))
		listenErr <- server.Listen(cfg.Server.Addr())
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			log.Error("Fiber server exited", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
