// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package config maps the process environment onto [Config] with
// caarlos0/env and rejects combinations the struct tags cannot express.
// main loads it once and hands it to constructors; nothing here is global.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the auth API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"25"`

	// MigrationPath overrides the embedded migrations with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache and lock event bus (Redis)
	RedisURL      string `env:"REDIS_URL,required"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// HS256 signing secret shared by every instance
	JWTSecret string `env:"JWT_SECRET,required"`

	// Token lifetimes
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	// Brute-force protection
	LockoutThreshold int           `env:"LOCKOUT_THRESHOLD" envDefault:"5"`
	LockoutWindow    time.Duration `env:"LOCKOUT_WINDOW"    envDefault:"15m"`

	// LockDelivery selects how lock instructions reach the lock service:
	// "redis" publishes on the event channel, "inline" locks synchronously.
	LockDelivery string `env:"LOCK_DELIVERY" envDefault:"redis"`

	// UserCacheTTL bounds how long an account projection stays in Redis.
	UserCacheTTL time.Duration `env:"USER_CACHE_TTL" envDefault:"30m"`

	// BcryptCost is the work factor for new password hashes.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// Per-IP limits applied to the login endpoint only
	LoginRateLimitRPS   float64 `env:"LOGIN_RATE_LIMIT_RPS"   envDefault:"1"`
	LoginRateLimitBurst int     `env:"LOGIN_RATE_LIMIT_BURST" envDefault:"10"`

	// Optional bootstrap administrator, created at startup when absent
	BootstrapAdminUsername string `env:"BOOTSTRAP_ADMIN_USERNAME"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load reads the environment, applies defaults and validates the result.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	var problems []error

	if len(c.JWTSecret) < constants.MinSecretLength {
		problems = append(problems, fmt.Errorf("JWT_SECRET must be at least %d bytes", constants.MinSecretLength))
	}
	if c.DBMaxConns < 1 {
		problems = append(problems, errors.New("DB_MAX_CONNS must be at least 1"))
	}
	if c.AccessTokenTTL <= 0 {
		problems = append(problems, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		problems = append(problems, errors.New("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL"))
	}
	if c.LockoutThreshold < 1 {
		problems = append(problems, errors.New("LOCKOUT_THRESHOLD must be at least 1"))
	}
	if c.LockoutWindow <= 0 {
		problems = append(problems, errors.New("LOCKOUT_WINDOW must be positive"))
	}
	if c.LockDelivery != "redis" && c.LockDelivery != "inline" {
		problems = append(problems, fmt.Errorf("LOCK_DELIVERY must be redis or inline, got %q", c.LockDelivery))
	}
	if c.UserCacheTTL <= 0 {
		problems = append(problems, errors.New("USER_CACHE_TTL must be positive"))
	}
	if (c.BootstrapAdminUsername == "") != (c.BootstrapAdminPassword == "") {
		problems = append(problems, errors.New("BOOTSTRAP_ADMIN_USERNAME and BOOTSTRAP_ADMIN_PASSWORD must be set together"))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid settings: %w", errors.Join(problems...))
	}
	return nil
}

// IsDevelopment relaxes CORS to any origin.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins splits EXTRA_ORIGINS on commas, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	return query.StringSlice(c.ExtraOrigins)
}
