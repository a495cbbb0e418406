// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

// Package pgtest opens a migrated database for store tests run with
// `go test -tags integration`. TEST_DATABASE_URL names the database; tests
// skip when it is unset.
package pgtest

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/data"
	"github.com/taibuivan/yomira-auth/internal/platform/migration"
	"github.com/taibuivan/yomira-auth/internal/platform/postgres"
	"github.com/taibuivan/yomira-auth/pkg/ids"
)

// EnvDSN holds the connection string of the disposable test database.
const EnvDSN = "TEST_DATABASE_URL"

// Open migrates the database and returns a pool that is closed when t ends.
// Packages run concurrently against the same database, so tests isolate their
// rows by unique account ids and usernames instead of truncating.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDSN)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := migration.RunUp(dsn, migration.Source{FS: data.Migrations, Dir: data.MigrationsDir}, logger, false)
	require.NoError(t, err)

	pool, err := postgres.NewPool(t.Context(), dsn, postgres.Options{MaxConns: 4}, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// InsertAccount adds a bare ACTIVE account row for foreign keys and returns
// its id.
func InsertAccount(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	id := ids.NewUUIDv7()
	_, err := pool.Exec(t.Context(),
		`INSERT INTO auth.account (id, username, passwordhash) VALUES ($1, $2, 'x')`, id, "user-"+id)
	require.NoError(t, err)
	return id
}
