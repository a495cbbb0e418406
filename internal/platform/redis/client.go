// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the go-redis client shared by the account projection cache
and the account-lock Pub/Sub channel.

Subscriptions hold a dedicated connection each, outside the command pool.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
)

// Cache reads sit on the login path, so the IO deadlines are short.
const (
	connectDeadline = 3 * time.Second
	ioDeadline      = 2 * time.Second
	probeDeadline   = 2 * time.Second

	defaultPoolMax     = 10
	defaultPoolMinIdle = 2
)

// PoolSize bounds the command connections. Zero fields keep the defaults.
type PoolSize struct {
	Max     int
	MinIdle int
}

func (p PoolSize) resolve() PoolSize {
	if p.Max <= 0 {
		p.Max = defaultPoolMax
	}
	if p.MinIdle <= 0 {
		p.MinIdle = defaultPoolMinIdle
	}
	p.MinIdle = min(p.MinIdle, p.Max)
	return p
}

/*
ParseOptions builds client options from a redis:// or rediss:// URL without
dialing.

Returns:
  - *redis.Options: Named after the service so CLIENT LIST identifies it
  - error: Malformed URL
*/
func ParseOptions(url string, pool PoolSize) (*redis.Options, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	pool = pool.resolve()
	opts.PoolSize = pool.Max
	opts.MinIdleConns = pool.MinIdle
	opts.ClientName = constants.AppName
	opts.DialTimeout = connectDeadline
	opts.ReadTimeout = ioDeadline
	opts.WriteTimeout = ioDeadline

	return opts, nil
}

// NewClient dials and probes the server. The caller owns Close.
func NewClient(context stdctx.Context, url string, pool PoolSize, logger *slog.Logger) (*redis.Client, error) {
	opts, err := ParseOptions(url, pool)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", opts.Addr),
		slog.Int("db", opts.DB),
		slog.Int("pool_size", opts.PoolSize),
		slog.Int("min_idle", opts.MinIdleConns),
	)
	return client, nil
}

// Ping is the readiness probe for Redis.
func Ping(context stdctx.Context, client *redis.Client) error {
	probeCtx, cancel := stdctx.WithTimeout(context, probeDeadline)
	defer cancel()

	if err := client.Ping(probeCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}
