// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/yomira-auth/internal/access/permission"
	"github.com/taibuivan/yomira-auth/internal/access/permission/permissionfakes"
	"github.com/taibuivan/yomira-auth/internal/access/role"
	"github.com/taibuivan/yomira-auth/internal/access/role/rolefakes"
	"github.com/taibuivan/yomira-auth/internal/api"
	"github.com/taibuivan/yomira-auth/internal/platform/config"
	"github.com/taibuivan/yomira-auth/internal/platform/metrics"
	"github.com/taibuivan/yomira-auth/internal/platform/sec"
	"github.com/taibuivan/yomira-auth/internal/users/account"
	"github.com/taibuivan/yomira-auth/internal/users/account/accountfakes"
	"github.com/taibuivan/yomira-auth/internal/users/attempt"
	"github.com/taibuivan/yomira-auth/internal/users/attempt/attemptfakes"
	"github.com/taibuivan/yomira-auth/internal/users/auth"
	"github.com/taibuivan/yomira-auth/internal/users/lock"
	"github.com/taibuivan/yomira-auth/internal/users/session"
	"github.com/taibuivan/yomira-auth/internal/users/session/sessionfakes"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type harness struct {
	server   *api.Server
	handler  http.Handler
	tokens   *sec.TokenService
	accounts *accountfakes.FakeRepository
}

func newHarness(t *testing.T, deps api.HealthDependencies) *harness {
	t.Helper()

	tokens, err := sec.NewTokenService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	accounts := accountfakes.NewFakeRepository()
	directory := account.NewDirectory(accounts, accountfakes.NewFakeCache(), discard)
	locks := lock.NewService(accounts, directory, collector, discard)
	tracker := attempt.NewTracker(attemptfakes.NewFakeStore(), lock.NewInlineRequester(locks), attempt.DefaultPolicy(), collector, discard)
	sessions := sessionfakes.NewFakeRepository()
	hasher := sec.NewBcryptHasher(bcrypt.MinCost)

	authService := auth.NewService(auth.Dependencies{
		Authenticator: auth.NewTrackedAuthenticator(auth.NewCredentialAuthenticator(directory, hasher), tracker),
		Processor:     auth.NewRefreshProcessor(tokens),
		Issuer:        auth.NewIssuer(tokens, 15*time.Minute, time.Hour),
		Accounts:      accounts,
		Sessions:      sessions,
		Cache:         directory,
		Attempts:      tracker,
		Metrics:       collector,
		Logger:        discard,
	})

	permissions := permission.NewService(permissionfakes.NewFakeRepository(), directory, discard)
	roles := role.NewService(rolefakes.NewFakeRepository(), permissions, directory, discard)

	liveness, readiness := api.NewHealthHandlers(deps, discard)
	cfg := &config.Config{ServerPort: "0", Environment: "test"}

	server := api.NewServer(t.Context(), cfg, discard, tokens, api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Metrics:     metrics.Handler(registry),
		Instrument:  collector.Instrument,
		Auth:        auth.NewHandler(authService, nil),
		Sessions:    session.NewHandler(session.NewService(sessions, directory, discard)),
		Accounts:    lock.NewHandler(locks),
		Roles:       role.NewHandler(roles),
		Permissions: permission.NewHandler(permissions),
	})

	return &harness{server: server, handler: server.Handler(), tokens: tokens, accounts: accounts}
}

func (h *harness) do(t *testing.T, method, path, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}
	recorder := httptest.NewRecorder()
	h.handler.ServeHTTP(recorder, request)
	return recorder
}

func (h *harness) accessToken(t *testing.T, roles ...string) string {
	t.Helper()
	raw, err := h.tokens.IssueAccessToken(sec.Identity{AccountID: "acc-1", Username: "alice", Roles: roles}, time.Minute)
	require.NoError(t, err)
	return raw
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	healthy := newHarness(t, api.HealthDependencies{CheckDatabase: ok, CheckCache: ok})
	recorder := healthy.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusOK, healthy.do(t, http.MethodGet, "/ready", "").Code)

	degraded := newHarness(t, api.HealthDependencies{CheckDatabase: ok, CheckCache: down})
	recorder = degraded.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"degraded"`)
}

/*
TestRouting_Guards verifies which routes require a bearer token and which
require the ADMIN role.
*/
func TestRouting_Guards(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{})
	user := h.accessToken(t, "USER")
	admin := h.accessToken(t, "ADMIN")

	tests := []struct {
		name       string
		method     string
		path       string
		bearer     string
		wantStatus int
	}{
		{"sessions anonymous", http.MethodGet, "/api/v1/account/sessions", "", http.StatusUnauthorized},
		{"sessions user", http.MethodGet, "/api/v1/account/sessions", user, http.StatusOK},
		{"roles anonymous", http.MethodGet, "/api/v1/roles", "", http.StatusUnauthorized},
		{"roles user", http.MethodGet, "/api/v1/roles", user, http.StatusForbidden},
		{"roles admin", http.MethodGet, "/api/v1/roles", admin, http.StatusOK},
		{"permissions admin", http.MethodGet, "/api/v1/permissions", admin, http.StatusOK},
		{"lock user", http.MethodPost, "/api/v1/accounts/bob/lock", user, http.StatusForbidden},
		{"lock unknown", http.MethodPost, "/api/v1/accounts/bob/lock", admin, http.StatusNotFound},
		{"me anonymous", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized},
		{"me user", http.MethodGet, "/api/v1/auth/me", user, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, h.do(t, tt.method, tt.path, tt.bearer).Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{})
	h.accounts.Put(&account.Account{ID: "acc-bob", Username: "bob", Status: account.StatusActive})

	admin := h.accessToken(t, "ADMIN")
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/v1/accounts/bob/lock", admin).Code)

	recorder := h.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "http_requests_total")
	assert.Contains(t, recorder.Body.String(), "accounts_locked_total")
}

/*
TestServer_RunDrainsOnCancel verifies that Run returns cleanly once its context ends.
*/
func TestServer_RunDrainsOnCancel(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.server.Run(ctx, time.Second) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
