// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/yomira-auth/internal/platform/metrics"
	"github.com/taibuivan/yomira-auth/internal/platform/sec"
	"github.com/taibuivan/yomira-auth/internal/users/account"
	"github.com/taibuivan/yomira-auth/internal/users/account/accountfakes"
	"github.com/taibuivan/yomira-auth/internal/users/attempt"
	"github.com/taibuivan/yomira-auth/internal/users/attempt/attemptfakes"
	"github.com/taibuivan/yomira-auth/internal/users/auth"
	"github.com/taibuivan/yomira-auth/internal/users/lock"
	"github.com/taibuivan/yomira-auth/internal/users/session/sessionfakes"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// env is a fully wired auth stack over in-memory stores.
type env struct {
	clock    *clock
	tokens   *sec.TokenService
	hasher   *sec.BcryptHasher
	accounts *accountfakes.FakeRepository
	cache    *accountfakes.FakeCache
	sessions *sessionfakes.FakeRepository
	audit    *attemptfakes.FakeStore
	service  *auth.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		clock:    &clock{now: time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)},
		hasher:   sec.NewBcryptHasher(bcrypt.MinCost),
		accounts: accountfakes.NewFakeRepository(),
		cache:    accountfakes.NewFakeCache(),
		sessions: sessionfakes.NewFakeRepository(),
		audit:    attemptfakes.NewFakeStore(),
	}

	tokens, err := sec.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), sec.WithClock(e.clock.Now))
	require.NoError(t, err)
	e.tokens = tokens

	directory := account.NewDirectory(e.accounts, e.cache, discard)
	locks := lock.NewService(e.accounts, directory, metrics.Nop{}, discard)
	tracker := attempt.NewTracker(e.audit, lock.NewInlineRequester(locks), attempt.DefaultPolicy(), metrics.Nop{}, discard,
		attempt.WithClock(e.clock.Now),
	)

	e.service = auth.NewService(auth.Dependencies{
		Authenticator: auth.NewTrackedAuthenticator(auth.NewCredentialAuthenticator(directory, e.hasher), tracker),
		Processor:     auth.NewRefreshProcessor(tokens),
		Issuer:        auth.NewIssuer(tokens, accessTTL, refreshTTL),
		Accounts:      e.accounts,
		Sessions:      e.sessions,
		Cache:         directory,
		Attempts:      tracker,
		Metrics:       metrics.Nop{},
		Logger:        discard,
		Clock:         e.clock.Now,
	})

	return e
}

// addAccount stores an account with the given password, status and role names.
func (e *env) addAccount(t *testing.T, username, password string, status account.Status, roles ...string) *account.Account {
	t.Helper()

	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)

	acc := &account.Account{
		ID:           "acc-" + username,
		Username:     username,
		PasswordHash: hash,
		Status:       status,
	}
	for i, name := range roles {
		acc.Roles = append(acc.Roles, account.Role{ID: int64(i + 1), Name: name})
	}

	e.accounts.Put(acc)
	return acc
}

func (e *env) setStatus(t *testing.T, username string, status account.Status) {
	t.Helper()
	acc, err := e.accounts.FindByUsername(t.Context(), username)
	require.NoError(t, err)
	acc.Status = status
	e.accounts.Put(acc)
	require.NoError(t, e.cache.Evict(t.Context(), username))
}
