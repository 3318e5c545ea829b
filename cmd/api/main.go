// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Warden HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis, when REDIS_URL is set.
//  5. Run database migrations (idempotent).
//  6. Wire the token service, password hasher and domain services.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/warden/internal/api"
	"github.com/taibuivan/warden/internal/platform/config"
	"github.com/taibuivan/warden/internal/platform/constants"
	"github.com/taibuivan/warden/internal/platform/metrics"
	"github.com/taibuivan/warden/internal/platform/migration"
	pgstore "github.com/taibuivan/warden/internal/platform/postgres"
	redisstore "github.com/taibuivan/warden/internal/platform/redis"
	"github.com/taibuivan/warden/internal/platform/sec"
	"github.com/taibuivan/warden/internal/users/account"
	"github.com/taibuivan/warden/internal/users/auth"
	"github.com/taibuivan/warden/internal/users/identity"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Duration("token_ttl", cfg.TokenTTL),
		slog.Int("hash_cost", cfg.HashCost),
		slog.Int("hash_workers", cfg.HashPoolSize()),
	)

	// Root context for startup. Misconfiguration surfaces within the deadline.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	var throttle auth.LoginThrottle = auth.NoopLoginThrottle{}

	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()
		throttle = auth.NewRedisLoginThrottle(rdb, cfg.LoginMaxFailures, cfg.LoginFailureWindow)
	} else {
		log.Warn("login_throttle_disabled", slog.String("reason", "REDIS_URL not set"))
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security Primitives ────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg)
	must(log, err, "initialize token service")

	hasher, err := sec.NewHasher(cfg)
	must(log, err, "initialize password hasher")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	credentialStore := auth.NewPostgresCredentialStore(pool)
	authService := auth.NewService(credentialStore, hasher, tokens, throttle)
	accountService := account.NewService(authService)
	resolver := identity.NewResolver(tokens, credentialStore, log)

	// ── 8. Observability ──────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)

	health := api.HealthDependencies{
		CheckDatabase: func(context context.Context) error {
			return pgstore.Ping(context, pool)
		},
	}
	if rdb != nil {
		health.CheckCache = func(context context.Context) error {
			return redisstore.Ping(context, rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, resolver, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
	})

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the process-wide JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// Limited to startup wiring. After startup, errors are returned and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
