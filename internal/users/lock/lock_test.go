// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lock_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/platform/metrics"
	"github.com/taibuivan/yomira-auth/internal/users/account"
	"github.com/taibuivan/yomira-auth/internal/users/account/accountfakes"
	"github.com/taibuivan/yomira-auth/internal/users/lock"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixture struct {
	repo      *accountfakes.FakeRepository
	cache     *accountfakes.FakeCache
	directory *account.Directory
	service   *lock.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{repo: accountfakes.NewFakeRepository(), cache: accountfakes.NewFakeCache()}
	f.directory = account.NewDirectory(f.repo, f.cache, discard)
	f.service = lock.NewService(f.repo, f.directory, metrics.Nop{}, discard)

	f.repo.Put(&account.Account{ID: "acc-alice", Username: "alice", Status: account.StatusActive})
	return f
}

/*
TestService_Lock verifies the transition, the cache eviction and idempotence.
*/
func TestService_Lock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Warm the cache so eviction is observable
	_, err := f.directory.Lookup(ctx, "alice")
	require.NoError(t, err)
	require.True(t, f.cache.Has("alice"))

	// 1. First lock writes and evicts
	locked, err := f.service.Lock(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, account.StatusLocked, locked.Status)
	assert.False(t, f.cache.Has("alice"))
	assert.Equal(t, 1, f.repo.Saves())

	stored, err := f.repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, account.StatusLocked, stored.Status)

	// 2. Second lock is a no-op
	locked, err = f.service.Lock(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, account.StatusLocked, locked.Status)
	assert.Equal(t, 1, f.repo.Saves())
}

func TestService_LockUnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Lock(context.Background(), "ghost")
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestInlineRequester(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, lock.NewInlineRequester(f.service).RequestLock(context.Background(), "alice"))

	stored, err := f.repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, account.StatusLocked, stored.Status)
}

func TestHandler_Lock(t *testing.T) {
	f := newFixture(t)
	router := lock.NewHandler(f.service).Routes()

	tests := []struct {
		name     string
		username string
		status   int
	}{
		{"existing account", "alice", http.StatusOK},
		{"already locked", "alice", http.StatusOK},
		{"unknown account", "ghost", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodPost, "/"+tt.username+"/lock", nil)

			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}
