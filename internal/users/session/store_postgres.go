// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-auth/internal/platform/database/schema"
	"github.com/taibuivan/yomira-auth/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on auth.refreshtoken.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the session repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	insertQuery = fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.AuthRefreshToken.Table,
		schema.AuthRefreshToken.ID, schema.AuthRefreshToken.AccountID, schema.AuthRefreshToken.TokenID,
		schema.AuthRefreshToken.IssuedAt, schema.AuthRefreshToken.ExpiresAt,
		schema.AuthRefreshToken.IPAddress, schema.AuthRefreshToken.UserAgent,
	)

	// revokeActiveQuery is the compare-and-set at the heart of rotation: it only
	// matches a row that is still active, and the row lock serializes racers.
	revokeActiveQuery = fmt.Sprintf(`
		UPDATE %s
		SET %s = TRUE, %s = $3
		WHERE %s = $1 AND %s = $2 AND NOT %s AND %s > $3
		RETURNING %s`,
		schema.AuthRefreshToken.Table,
		schema.AuthRefreshToken.IsRevoked, schema.AuthRefreshToken.RevokedAt,
		schema.AuthRefreshToken.TokenID, schema.AuthRefreshToken.AccountID,
		schema.AuthRefreshToken.IsRevoked, schema.AuthRefreshToken.ExpiresAt,
		schema.AuthRefreshToken.ID,
	)
)

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertToken(context context.Context, db execer, token *RefreshToken) error {
	_, err := db.Exec(context, insertQuery,
		token.ID,
		token.AccountID,
		token.TokenID,
		token.IssuedAt,
		token.ExpiresAt,
		token.IPAddress,
		token.UserAgent,
	)
	return err
}

// Create stores a freshly issued token.
func (repository *PostgresRepository) Create(context context.Context, token *RefreshToken) error {
	if err := insertToken(context, repository.pool, token); err != nil {
		return dberr.Wrap(err, "create session")
	}
	return nil
}

/*
Rotate revokes the presented token and inserts its replacement in one transaction.

Description: The conditional UPDATE acts as compare-and-set. A concurrent
request presenting the same jti blocks on the row lock, then finds it revoked
and matches zero rows.

Parameters:
  - context: context.Context
  - accountID: string (owner of the presented token)
  - tokenID: string (presented jti)
  - replacement: *RefreshToken (row for the newly signed token)
  - now: time.Time

Returns:
  - error: [ErrNotActive] or database errors
*/
func (repository *PostgresRepository) Rotate(context context.Context, accountID, tokenID string, replacement *RefreshToken, now time.Time) error {
	return pgx.BeginFunc(context, repository.pool, func(transaction pgx.Tx) error {
		var revokedID string
		if err := transaction.QueryRow(context, revokeActiveQuery, tokenID, accountID, now).Scan(&revokedID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotActive
			}
			return fmt.Errorf("postgres_session_rotate_revoke_failed: %w", err)
		}

		if err := insertToken(context, transaction, replacement); err != nil {
			return dberr.Wrap(err, "rotate session")
		}
		return nil
	})
}

// Revoke marks the active token revoked without issuing a replacement.
func (repository *PostgresRepository) Revoke(context context.Context, accountID, tokenID string, now time.Time) error {
	var revokedID string
	if err := repository.pool.QueryRow(context, revokeActiveQuery, tokenID, accountID, now).Scan(&revokedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotActive
		}
		return fmt.Errorf("postgres_session_revoke_failed: %w", err)
	}
	return nil
}

// RevokeByID revokes one of the account's active sessions by row id.
func (repository *PostgresRepository) RevokeByID(context context.Context, accountID, id string, now time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = TRUE, %s = $3
		WHERE %s = $1 AND %s = $2 AND NOT %s AND %s > $3`,
		schema.AuthRefreshToken.Table,
		schema.AuthRefreshToken.IsRevoked, schema.AuthRefreshToken.RevokedAt,
		schema.AuthRefreshToken.ID, schema.AuthRefreshToken.AccountID,
		schema.AuthRefreshToken.IsRevoked, schema.AuthRefreshToken.ExpiresAt,
	)

	tag, err := repository.pool.Exec(context, query, id, accountID, now)
	if err != nil {
		return fmt.Errorf("postgres_session_revoke_by_id_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListActive returns the active sessions of an account, newest first.
func (repository *PostgresRepository) ListActive(context context.Context, accountID string, now time.Time) ([]*RefreshToken, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND NOT %s AND %s > $2
		ORDER BY %s DESC`,
		schema.AuthRefreshToken.ID, schema.AuthRefreshToken.AccountID, schema.AuthRefreshToken.TokenID,
		schema.AuthRefreshToken.IssuedAt, schema.AuthRefreshToken.ExpiresAt, schema.AuthRefreshToken.IsRevoked,
		schema.AuthRefreshToken.IPAddress, schema.AuthRefreshToken.UserAgent,
		schema.AuthRefreshToken.Table,
		schema.AuthRefreshToken.AccountID, schema.AuthRefreshToken.IsRevoked, schema.AuthRefreshToken.ExpiresAt,
		schema.AuthRefreshToken.IssuedAt,
	)

	rows, err := repository.pool.Query(context, query, accountID, now)
	if err != nil {
		return nil, fmt.Errorf("postgres_session_list_failed: %w", err)
	}
	defer rows.Close()

	sessions := make([]*RefreshToken, 0)
	for rows.Next() {
		token := &RefreshToken{}
		if err := rows.Scan(
			&token.ID,
			&token.AccountID,
			&token.TokenID,
			&token.IssuedAt,
			&token.ExpiresAt,
			&token.Revoked,
			&token.IPAddress,
			&token.UserAgent,
		); err != nil {
			return nil, fmt.Errorf("postgres_session_scan_failed: %w", err)
		}
		sessions = append(sessions, token)
	}

	return sessions, rows.Err()
}
