// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstore "github.com/taibuivan/yomira-auth/internal/platform/redis"
)

func TestParseOptions(t *testing.T) {
	options, err := redisstore.ParseOptions("redis://localhost:6380/3", redisstore.PoolSize{})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", options.Addr)
	assert.Equal(t, 3, options.DB)
	assert.Equal(t, 10, options.PoolSize)
	assert.Equal(t, "yomira-auth", options.ClientName)

	options, err = redisstore.ParseOptions("redis://localhost:6379/0", redisstore.PoolSize{Max: 4, MinIdle: 8})
	require.NoError(t, err)
	assert.Equal(t, 4, options.PoolSize)
	assert.Equal(t, 4, options.MinIdleConns)

	_, err = redisstore.ParseOptions("http://nope", redisstore.PoolSize{})
	assert.Error(t, err)
}

func TestNewClient(t *testing.T) {
	server := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := redisstore.NewClient(t.Context(), "redis://"+server.Addr(), redisstore.PoolSize{}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, redisstore.Ping(t.Context(), client))

	server.Close()
	assert.Error(t, redisstore.Ping(t.Context(), client))
}
