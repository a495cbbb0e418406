// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the pgx pool shared by the account, session, audit
// and RBAC stores.
//
// Every connection is pinned to the auth schema through search_path and
// carries a statement timeout, so stores can use bare table names and a
// stuck query cannot outlive its request.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
)

const (
	maxConnLifetime   = 60 * time.Minute
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = 1 * time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

// Options tunes the pool. Zero fields fall back to [DefaultOptions].
type Options struct {
	MaxConns         int32
	MinConns         int32
	StatementTimeout time.Duration
	ApplicationName  string
}

// DefaultOptions suits an auth workload of short point queries.
func DefaultOptions() Options {
	return Options{
		MaxConns:         25,
		MinConns:         5,
		StatementTimeout: constants.GlobalRequestTimeout,
		ApplicationName:  constants.AppName,
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.MaxConns <= 0 {
		o.MaxConns = defaults.MaxConns
	}
	if o.MinConns <= 0 {
		o.MinConns = min(defaults.MinConns, o.MaxConns)
	}
	if o.StatementTimeout <= 0 {
		o.StatementTimeout = defaults.StatementTimeout
	}
	if o.ApplicationName == "" {
		o.ApplicationName = defaults.ApplicationName
	}
	return o
}

/*
ParseConfig builds the pool configuration without connecting.

Parameters:
  - dsn: string (postgres:// URL or key/value DSN)
  - opts: Options

Returns:
  - *pgxpool.Config: Ready for [pgxpool.NewWithConfig]
  - error: Invalid DSN
*/
func ParseConfig(dsn string, opts Options) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	opts = opts.withDefaults()

	poolConfig.MaxConns = opts.MaxConns
	poolConfig.MinConns = opts.MinConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// Sent in the startup packet, so no extra round trip per connection
	params := poolConfig.ConnConfig.RuntimeParams
	params["application_name"] = opts.ApplicationName
	params["search_path"] = constants.SchemaAuth + ",public"
	params["statement_timeout"] = strconv.FormatInt(opts.StatementTimeout.Milliseconds(), 10)
	params["idle_in_transaction_session_timeout"] = strconv.FormatInt(opts.StatementTimeout.Milliseconds(), 10)

	return poolConfig, nil
}

// NewPool connects, pings and logs the pool size.
func NewPool(ctx context.Context, dsn string, opts Options, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := ParseConfig(dsn, opts)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
		slog.Int("min_conns", int(poolConfig.MinConns)),
	)

	return pool, nil
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}
