// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package attempt

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-auth/internal/platform/database/schema"
	"github.com/taibuivan/yomira-auth/pkg/slice"
)

// PostgresStore implements [Store] on auth.loginaudit.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the audit store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Append inserts one audit row with a pool statement, committing independently.
func (store *PostgresStore) Append(context context.Context, record *Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.AuthLoginAudit.Table,
		schema.AuthLoginAudit.ID, schema.AuthLoginAudit.Username, schema.AuthLoginAudit.Action,
		schema.AuthLoginAudit.AttemptedAt, schema.AuthLoginAudit.IPAddress, schema.AuthLoginAudit.UserAgent,
	)

	_, err := store.pool.Exec(context, query,
		record.ID,
		record.Username,
		record.Action,
		record.AttemptedAt,
		record.IPAddress,
		record.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("postgres_audit_append_failed: %w", err)
	}
	return nil
}

/*
Recent reads the newest matching rows and returns them oldest first.

Parameters:
  - context: context.Context
  - username: string
  - actions: []Action (filter)
  - since, until: time.Time (inclusive window)
  - limit: int

Returns:
  - []*Record: Chronological slice, at most limit long
  - error: Database errors
*/
func (store *PostgresStore) Recent(context context.Context, username string, actions []Action, since, until time.Time, limit int) ([]*Record, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = ANY($2) AND %s BETWEEN $3 AND $4
		ORDER BY %s DESC, %s DESC
		LIMIT $5`,
		schema.AuthLoginAudit.ID, schema.AuthLoginAudit.Username, schema.AuthLoginAudit.Action,
		schema.AuthLoginAudit.AttemptedAt, schema.AuthLoginAudit.IPAddress, schema.AuthLoginAudit.UserAgent,
		schema.AuthLoginAudit.Table,
		schema.AuthLoginAudit.Username, schema.AuthLoginAudit.Action, schema.AuthLoginAudit.AttemptedAt,
		schema.AuthLoginAudit.AttemptedAt, schema.AuthLoginAudit.ID,
	)

	codes := slice.Map(actions, func(action Action) int16 { return int16(action) })

	rows, err := store.pool.Query(context, query, username, codes, since, until, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_audit_recent_failed: %w", err)
	}
	defer rows.Close()

	records := make([]*Record, 0, limit)
	for rows.Next() {
		record := &Record{}
		if err := rows.Scan(
			&record.ID,
			&record.Username,
			&record.Action,
			&record.AttemptedAt,
			&record.IPAddress,
			&record.UserAgent,
		); err != nil {
			return nil, fmt.Errorf("postgres_audit_scan_failed: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_audit_iterate_failed: %w", err)
	}

	slices.Reverse(records)
	return records, nil
}
