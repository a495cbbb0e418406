// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package accountfakes

import (
	"context"
	"sync"

	"github.com/taibuivan/yomira-auth/internal/users/account"
)

var _ account.Cache = (*FakeCache)(nil)

// FakeCache is a map-backed projection cache that remembers evictions.
type FakeCache struct {
	entries map[string]account.Projection
	evicted []string
	clears  int
	lock    sync.RWMutex

	// GetErr, when set, is returned by Get.
	GetErr error
}

// NewFakeCache creates an empty cache.
func NewFakeCache() *FakeCache {
	return &FakeCache{entries: make(map[string]account.Projection)}
}

func (cache *FakeCache) Get(_ context.Context, username string) (*account.Projection, error) {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	if cache.GetErr != nil {
		return nil, cache.GetErr
	}

	projection, ok := cache.entries[username]
	if !ok {
		return nil, account.ErrCacheMiss
	}
	return &projection, nil
}

func (cache *FakeCache) Put(_ context.Context, projection *account.Projection) error {
	cache.lock.Lock()
	defer cache.lock.Unlock()
	cache.entries[projection.Username] = *projection
	return nil
}

func (cache *FakeCache) Evict(_ context.Context, username string) error {
	cache.lock.Lock()
	defer cache.lock.Unlock()
	delete(cache.entries, username)
	cache.evicted = append(cache.evicted, username)
	return nil
}

func (cache *FakeCache) EvictAll(_ context.Context) error {
	cache.lock.Lock()
	defer cache.lock.Unlock()
	cache.entries = make(map[string]account.Projection)
	cache.clears++
	return nil
}

// Has reports whether a projection is cached for username.
func (cache *FakeCache) Has(username string) bool {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	_, ok := cache.entries[username]
	return ok
}

// Evicted lists the usernames passed to Evict, in order.
func (cache *FakeCache) Evicted() []string {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	return append([]string(nil), cache.evicted...)
}

// Clears reports how many times EvictAll ran.
func (cache *FakeCache) Clears() int {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	return cache.clears
}
