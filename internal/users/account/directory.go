// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Directory resolves account projections through the cache, falling back to
// the repository on a miss. A failing cache degrades to direct reads.
//
// Concurrent misses for one username share a single repository read, so a
// burst of logins against a cold entry costs one query.
type Directory struct {
	repository Repository
	cache      Cache
	logger     *slog.Logger
	loads      singleflight.Group
}

// NewDirectory wires the read-through lookup.
func NewDirectory(repository Repository, cache Cache, logger *slog.Logger) *Directory {
	return &Directory{repository: repository, cache: cache, logger: logger}
}

/*
Lookup returns the projection for username.

Returns:
  - *Projection: Cached or freshly loaded projection, shared between
    concurrent callers and therefore read-only
  - error: [ErrAccountNotFound] or storage failures
*/
func (directory *Directory) Lookup(context context.Context, username string) (*Projection, error) {

	// 1. Cache first
	projection, err := directory.cache.Get(context, username)
	if err == nil {
		return projection, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		directory.logger.WarnContext(context, "user_cache_read_failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
	}

	// 2. Source of truth, one read per username in flight
	loaded, err, _ := directory.loads.Do(username, func() (any, error) {
		return directory.load(context, username)
	})
	if err != nil {
		return nil, err
	}
	return loaded.(*Projection), nil
}

// load reads username from the repository and populates the cache. The read
// is detached from the leader's cancellation: followers share its result.
func (directory *Directory) load(parent context.Context, username string) (*Projection, error) {
	ctx := context.WithoutCancel(parent)

	account, err := directory.repository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	projection := ProjectionOf(account)
	if err := directory.cache.Put(ctx, projection); err != nil {
		directory.logger.WarnContext(ctx, "user_cache_write_failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
	}
	return projection, nil
}

// Evict drops the cached projection of username. Failures are logged, not returned,
// since the entry still expires on its own.
func (directory *Directory) Evict(context context.Context, username string) {
	if err := directory.cache.Evict(context, username); err != nil {
		directory.logger.WarnContext(context, "user_cache_evict_failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
	}
}

// EvictAll clears every cached projection after an RBAC change.
func (directory *Directory) EvictAll(context context.Context) {
	if err := directory.cache.EvictAll(context); err != nil {
		directory.logger.WarnContext(context, "user_cache_evict_all_failed", slog.Any("error", err))
	}
}
