// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
)

// ErrCacheMiss is returned by [Cache.Get] when no projection is stored.
var ErrCacheMiss = errors.New("account: cache miss")

// evictBatch bounds the number of keys deleted per round trip in EvictAll.
const evictBatch = 100

// RedisCache implements [Cache] with one JSON string per username.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache whose entries expire after ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (cache *RedisCache) key(username string) string {
	return fmt.Sprintf("%s%s", constants.RedisPrefixUser, username)
}

// Get returns the cached projection or [ErrCacheMiss].
func (cache *RedisCache) Get(context context.Context, username string) (*Projection, error) {
	payload, err := cache.client.Get(context, cache.key(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis_get_user_failed: %w", err)
	}

	var projection Projection
	if err := json.Unmarshal(payload, &projection); err != nil {
		return nil, fmt.Errorf("redis_decode_user_failed: %w", err)
	}

	return &projection, nil
}

// Put stores the projection with the configured TTL, replacing any previous entry.
func (cache *RedisCache) Put(context context.Context, projection *Projection) error {
	payload, err := json.Marshal(projection)
	if err != nil {
		return fmt.Errorf("redis_encode_user_failed: %w", err)
	}

	if err := cache.client.Set(context, cache.key(projection.Username), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_set_user_failed: %w", err)
	}
	return nil
}

// Evict removes the projection of one username. Evicting an absent key is not an error.
func (cache *RedisCache) Evict(context context.Context, username string) error {
	if err := cache.client.Del(context, cache.key(username)).Err(); err != nil {
		return fmt.Errorf("redis_evict_user_failed: %w", err)
	}
	return nil
}

// EvictAll drops every cached projection. Role and permission changes call it
// because any account may carry the modified role.
func (cache *RedisCache) EvictAll(context context.Context) error {
	iterator := cache.client.Scan(context, 0, constants.RedisPrefixUser+"*", evictBatch).Iterator()

	batch := make([]string, 0, evictBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := cache.client.Del(context, batch...).Err(); err != nil {
			return fmt.Errorf("redis_evict_all_failed: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for iterator.Next(context) {
		batch = append(batch, iterator.Val())
		if len(batch) == evictBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iterator.Err(); err != nil {
		return fmt.Errorf("redis_scan_users_failed: %w", err)
	}

	return flush()
}
