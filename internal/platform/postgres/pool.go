// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides the managed PostgreSQL connection pool backing the
// credential store.
//
// # Architecture
//
// This package is part of the Infrastructure layer. It owns the physical
// connections (pgxpool); the auth store only sees a narrow querier interface.
package postgres

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/warden/internal/platform/constants"
)

// Pool settings sized for a credential workload: short single-row lookups and
// rare writes, with bcrypt rather than the database as the bottleneck.
const (
	maxConns          = 15
	minConns          = 2
	maxConnLifetime   = 60 * time.Minute
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = 1 * time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

// Pinger is satisfied by [*pgxpool.Pool] and used by readiness probes.
type Pinger interface {
	Ping(context stdctx.Context) error
}

// NewPool creates and validates a new PostgreSQL connection pool.
//
// # Parameters
//   - context: Context for the initial connection attempt.
//   - dsn: A libpq-compatible connection string or postgres:// URL.
//   - logger: Structured logger for pool-level events.
func NewPool(context stdctx.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout
	poolConfig.ConnConfig.RuntimeParams["application_name"] = constants.AppName

	// Bound every statement by the request deadline.
	poolConfig.AfterConnect = func(ctx stdctx.Context, connection *pgx.Conn) error {
		_, err := connection.Exec(ctx, statementTimeoutQuery(constants.GlobalRequestTimeout))
		return err
	}

	pool, err := pgxpool.NewWithConfig(context, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(context, pool); err != nil {
		pool.Close()
		return nil, err
	}

	stats := pool.Stat()
	logger.Info("postgres_pool_connected",
		slog.Int("max_conns", int(stats.MaxConns())),
		slog.Int("total_conns", int(stats.TotalConns())),
	)

	return pool, nil
}

// Ping verifies that the database answers within the probe timeout.
func Ping(context stdctx.Context, pinger Pinger) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := pinger.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}

func statementTimeoutQuery(timeout time.Duration) string {
	return fmt.Sprintf("SET statement_timeout = '%dms'", timeout.Milliseconds())
}
