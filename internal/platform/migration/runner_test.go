// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/data"
	"github.com/taibuivan/yomira-auth/internal/platform/migration"
)

func TestPgx5URL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/auth", "pgx5://u:p@db:5432/auth"},
		{"postgresql://u:p@db/auth?sslmode=disable", "pgx5://u:p@db/auth?sslmode=disable"},
		{"pgx5://u:p@db/auth", "pgx5://u:p@db/auth"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, migration.Pgx5URL(tt.in))
		})
	}
}

/*
TestOpenSource_Embedded verifies the binary carries every migration in order.
*/
func TestOpenSource_Embedded(t *testing.T) {
	driver, err := migration.OpenSource(migration.Source{FS: data.Migrations, Dir: data.MigrationsDir})
	require.NoError(t, err)
	defer driver.Close()

	first, err := driver.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := driver.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)

	_, err = driver.Next(next)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	body, identifier, err := driver.ReadUp(first)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, "auth_schema", identifier)
}

func TestOpenSource_Missing(t *testing.T) {
	_, err := migration.OpenSource(migration.Source{})
	assert.Error(t, err)
}
