// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Yomira authentication server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire stores, services and the lock event bus.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/taibuivan/yomira-auth/data"
	"github.com/taibuivan/yomira-auth/internal/access/permission"
	"github.com/taibuivan/yomira-auth/internal/access/role"
	"github.com/taibuivan/yomira-auth/internal/api"
	"github.com/taibuivan/yomira-auth/internal/platform/config"
	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/metrics"
	"github.com/taibuivan/yomira-auth/internal/platform/middleware"
	"github.com/taibuivan/yomira-auth/internal/platform/migration"
	pgstore "github.com/taibuivan/yomira-auth/internal/platform/postgres"
	redisstore "github.com/taibuivan/yomira-auth/internal/platform/redis"
	"github.com/taibuivan/yomira-auth/internal/platform/sec"
	"github.com/taibuivan/yomira-auth/internal/users/account"
	"github.com/taibuivan/yomira-auth/internal/users/attempt"
	"github.com/taibuivan/yomira-auth/internal/users/auth"
	"github.com/taibuivan/yomira-auth/internal/users/lock"
	"github.com/taibuivan/yomira-auth/internal/users/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Structured JSON from the first line; DEBUG lowers the level once the
	// configuration is known.
	level := new(slog.LevelVar)
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String(constants.FieldApp, constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		level.Set(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("lock_delivery", cfg.LockDelivery),
	)

	// Cancelled by SIGINT or SIGTERM; stops the server and every background worker.
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.Options{MaxConns: cfg.DBMaxConns}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, redisstore.PoolSize{Max: cfg.RedisPoolSize}, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	migrationSource := migration.Source{FS: data.Migrations, Dir: data.MigrationsDir, Path: cfg.MigrationPath}
	_, err = migration.RunUp(cfg.DatabaseURL, migrationSource, log, cfg.Debug)
	must(log, err, "run migrations")

	// ── 6. Security & Metrics ─────────────────────────────────────────────
	tokens, err := sec.NewTokenService([]byte(cfg.JWTSecret), sec.WithIssuer(constants.AuthIssuer))
	must(log, err, "initialize token service")
	hasher := sec.NewBcryptHasher(cfg.BcryptCost)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// ── 7. Stores ─────────────────────────────────────────────────────────
	accountRepository := account.NewPostgresRepository(pool)
	sessionRepository := session.NewPostgresRepository(pool)
	attemptStore := attempt.NewPostgresStore(pool)
	directory := account.NewDirectory(accountRepository, account.NewRedisCache(rdb, cfg.UserCacheTTL), log)

	// ── 8. Account Lock ───────────────────────────────────────────────────
	lockService := lock.NewService(accountRepository, directory, collector, log)

	var lockRequester attempt.LockRequester = lock.NewInlineRequester(lockService)
	if cfg.LockDelivery == "redis" {
		lockRequester = lock.NewPublisher(rdb)

		subscriber := lock.NewSubscriber(rdb, lock.LockerFunc(func(ctx context.Context, username string) error {
			_, err := lockService.Lock(ctx, username)
			return err
		}), log)

		go func() {
			if err := subscriber.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("lock_subscriber_stopped", slog.Any("error", err))
			}
		}()
	}

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	tracker := attempt.NewTracker(attemptStore, lockRequester,
		attempt.Policy{Threshold: cfg.LockoutThreshold, Window: cfg.LockoutWindow},
		collector, log,
	)

	authService := auth.NewService(auth.Dependencies{
		Authenticator: auth.NewTrackedAuthenticator(auth.NewCredentialAuthenticator(directory, hasher), tracker),
		Processor:     auth.NewRefreshProcessor(tokens),
		Issuer:        auth.NewIssuer(tokens, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Accounts:      accountRepository,
		Sessions:      sessionRepository,
		Cache:         directory,
		Attempts:      tracker,
		Metrics:       collector,
		Logger:        log,
	})

	permissionService := permission.NewService(permission.NewPostgresRepository(pool), directory, log)
	roleService := role.NewService(role.NewPostgresRepository(pool), permissionService, directory, log)

	if cfg.BootstrapAdminUsername != "" {
		created, err := account.NewService(accountRepository, hasher, log).
			EnsureAdmin(startupCtx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword)
		must(log, err, "bootstrap admin account")
		if !created {
			log.Info("bootstrap_admin_present", slog.String("username", cfg.BootstrapAdminUsername))
		}
	}

	// ── 10. Health handlers (wired with real dependency checkers) ─────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 11. HTTP Server ───────────────────────────────────────────────────
	loginGuard := middleware.RateLimit(rootCtx, cfg.LoginRateLimitRPS, cfg.LoginRateLimitBurst)

	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Metrics:     metrics.Handler(registry),
		Instrument:  collector.Instrument,
		Auth:        auth.NewHandler(authService, loginGuard),
		Sessions:    session.NewHandler(session.NewService(sessionRepository, directory, log)),
		Accounts:    lock.NewHandler(lockService),
		Roles:       role.NewHandler(roleService),
		Permissions: permission.NewHandler(permissionService),
	}

	server := api.NewServer(rootCtx, cfg, log, tokens, handlers)

	// ── 12. Serve until signalled ────────────────────────────────────────
	if err := server.Run(rootCtx, constants.ShutdownTimeout); err != nil {
		log.Error("server_stopped_with_error", slog.Any("error", err))
		rootCancel()
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
