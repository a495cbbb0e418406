// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/users/account"
	"github.com/taibuivan/yomira-auth/internal/users/account/accountfakes"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

/*
TestDirectory_ReadThrough verifies that a miss loads from the repository and
populates the cache, and that later reads are served from the cache.
*/
func TestDirectory_ReadThrough(t *testing.T) {
	repo := accountfakes.NewFakeRepository()
	cache := accountfakes.NewFakeCache()
	repo.Put(sampleAccount())

	directory := account.NewDirectory(repo, cache, discard)
	ctx := context.Background()

	// 1. Miss populates
	projection, err := directory.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", projection.Username)
	assert.True(t, cache.Has("alice"))

	// 2. Hit does not touch the repository
	repo.Err = errors.New("database down")
	projection, err = directory.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"ADMIN", "USER"}, projection.Roles)
}

func TestDirectory_NotFound(t *testing.T) {
	directory := account.NewDirectory(accountfakes.NewFakeRepository(), accountfakes.NewFakeCache(), discard)

	_, err := directory.Lookup(context.Background(), "ghost")
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestDirectory_CacheFailureFallsBack(t *testing.T) {
	repo := accountfakes.NewFakeRepository()
	cache := accountfakes.NewFakeCache()
	cache.GetErr = errors.New("redis down")
	repo.Put(sampleAccount())

	projection, err := account.NewDirectory(repo, cache, discard).Lookup(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, "alice", projection.Username)
}

func TestDirectory_Evict(t *testing.T) {
	repo := accountfakes.NewFakeRepository()
	cache := accountfakes.NewFakeCache()
	repo.Put(sampleAccount())
	directory := account.NewDirectory(repo, cache, discard)
	ctx := context.Background()

	_, err := directory.Lookup(ctx, "alice")
	require.NoError(t, err)

	directory.Evict(ctx, "alice")
	assert.False(t, cache.Has("alice"))
	assert.Equal(t, []string{"alice"}, cache.Evicted())

	directory.EvictAll(ctx)
	assert.Equal(t, 1, cache.Clears())
}

// gatedRepository blocks reads until the gate closes and counts them.
type gatedRepository struct {
	account.Repository
	gate  chan struct{}
	reads atomic.Int32
}

func (repo *gatedRepository) FindByUsername(ctx context.Context, username string) (*account.Account, error) {
	repo.reads.Add(1)
	<-repo.gate
	return repo.Repository.FindByUsername(ctx, username)
}

/*
TestDirectory_CoalescesConcurrentMisses verifies that a burst of lookups on a cold
entry results in one repository read.
*/
func TestDirectory_CoalescesConcurrentMisses(t *testing.T) {
	fake := accountfakes.NewFakeRepository()
	fake.Put(sampleAccount())
	repo := &gatedRepository{Repository: fake, gate: make(chan struct{})}
	directory := account.NewDirectory(repo, accountfakes.NewFakeCache(), discard)

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan string, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			projection, err := directory.Lookup(context.Background(), "alice")
			if err == nil {
				results <- projection.Username
			}
		}()
	}

	require.Eventually(t, func() bool { return repo.reads.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(repo.gate)
	wg.Wait()
	close(results)

	assert.Equal(t, int32(1), repo.reads.Load())
	count := 0
	for username := range results {
		assert.Equal(t, "alice", username)
		count++
	}
	assert.Equal(t, callers, count)
}
