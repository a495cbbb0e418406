// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the HTTP composition root of the auth service.

It mounts every domain handler under /api/v1 behind one middleware chain and
exposes the probes and the scrape endpoint at the root:

	GET  /health, /ready, /metrics
	     /api/v1/auth              public (login is additionally rate limited)
	     /api/v1/account/sessions  any authenticated caller
	     /api/v1/accounts          ADMIN
	     /api/v1/roles             ADMIN
	     /api/v1/permissions       ADMIN
*/
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/yomira-auth/internal/access/permission"
	"github.com/taibuivan/yomira-auth/internal/access/role"
	"github.com/taibuivan/yomira-auth/internal/platform/config"
	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/middleware"
	"github.com/taibuivan/yomira-auth/internal/users/auth"
	"github.com/taibuivan/yomira-auth/internal/users/lock"
	"github.com/taibuivan/yomira-auth/internal/users/session"
)

// Handlers is everything the router mounts. Metrics and Instrument may be nil.
type Handlers struct {
	Liveness   http.HandlerFunc
	Readiness  http.HandlerFunc
	Metrics    http.Handler
	Instrument func(http.Handler) http.Handler

	Auth        *auth.Handler
	Sessions    *session.Handler
	Accounts    *lock.Handler
	Roles       *role.Handler
	Permissions *permission.Handler
}

// Server owns the router and the listening [http.Server].
type Server struct {
	httpServer *http.Server
	router     chi.Router
	log        *slog.Logger
}

// NewServer builds the router. ctx bounds the background work of the
// middleware, such as the rate limiter's sweeper.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	router := chi.NewRouter()

	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(log),
		middleware.PanicRecovery(log),
	)
	if h.Instrument != nil {
		router.Use(h.Instrument)
	}
	router.Use(
		chimw.Timeout(constants.GlobalRequestTimeout),
		middleware.RateLimit(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst),
		middleware.SecureHeaders(),
		middleware.CORS(cfg),
		middleware.Authenticate(verifier),
		chimw.CleanPath,
	)

	mountProbes(router, h)
	router.Route("/api/v1", func(v1 chi.Router) { mountAPI(v1, h) })

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		},
	}
}

func mountProbes(router chi.Router, h Handlers) {
	router.Get("/health", h.Liveness)
	router.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", h.Metrics)
	}
}

func mountAPI(v1 chi.Router, h Handlers) {
	v1.Mount("/auth", h.Auth.Routes())

	v1.Group(func(self chi.Router) {
		self.Use(middleware.RequireAuth)
		self.Mount("/account/sessions", h.Sessions.Routes())
	})

	v1.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(constants.RoleAdmin))
		admin.Mount("/accounts", h.Accounts.Routes())
		admin.Mount("/roles", h.Roles.Routes())
		admin.Mount("/permissions", h.Permissions.Routes())
	})
}

// Handler exposes the router to tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

/*
Run serves until ctx is done, then drains in-flight requests for at most
drain before closing.

Returns:
  - error: nil after a clean drain; listen failures or a drain that ran out of time
*/
func (s *Server) Run(ctx context.Context, drain time.Duration) error {
	failed := make(chan error, 1)
	go func() {
		s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()

	select {
	case err := <-failed:
		return err
	case <-ctx.Done():
	}

	s.log.Info("server_draining", slog.Duration("timeout", drain))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drain)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-failed
}
