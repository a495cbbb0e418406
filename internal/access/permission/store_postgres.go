// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/database/schema"
	"github.com/taibuivan/yomira-auth/internal/platform/dberr"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

// PostgresRepository implements [Repository] on auth.permission.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the permission repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns one page of permissions ordered by name, plus the total match count.
func (repository *PostgresRepository) List(context context.Context, filter Filter, page pagination.Params) ([]*Permission, int, error) {
	where := fmt.Sprintf(`WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')`, schema.AuthPermission.Name)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, schema.AuthPermission.Table, where)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, filter.Name).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_permissions")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s FROM %s %s
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		schema.AuthPermission.ID, schema.AuthPermission.Name, schema.AuthPermission.CreatedAt,
		schema.AuthPermission.Table, where,
		schema.AuthPermission.Name,
	)

	rows, err := repository.pool.Query(context, query, filter.Name, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_permissions")
	}
	defer rows.Close()

	permissions := make([]*Permission, 0)
	for rows.Next() {
		permission := &Permission{}
		if err := rows.Scan(&permission.ID, &permission.Name, &permission.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_permission")
		}
		permissions = append(permissions, permission)
	}

	return permissions, total, rows.Err()
}

// FindByID loads one permission.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Permission, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.AuthPermission.ID, schema.AuthPermission.Name, schema.AuthPermission.CreatedAt,
		schema.AuthPermission.Table, schema.AuthPermission.ID,
	)

	permission := &Permission{}
	err := repository.pool.QueryRow(context, query, id).Scan(&permission.ID, &permission.Name, &permission.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Permission")
		}
		return nil, dberr.Wrap(err, "find_permission")
	}

	return permission, nil
}

// Create inserts the permission and fills its generated id and timestamp.
func (repository *PostgresRepository) Create(context context.Context, permission *Permission) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING %s, %s`,
		schema.AuthPermission.Table, schema.AuthPermission.Name,
		schema.AuthPermission.ID, schema.AuthPermission.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query, permission.Name).Scan(&permission.ID, &permission.CreatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Permission already exists")
		}
		return dberr.Wrap(err, "create permission")
	}
	return nil
}

// Delete removes the permission row.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.AuthPermission.Table, schema.AuthPermission.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete permission")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Permission")
	}
	return nil
}

// IsAttached reports whether any role references the permission.
func (repository *PostgresRepository) IsAttached(context context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.AuthRolePermission.Table, schema.AuthRolePermission.PermissionID,
	)

	var attached bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&attached); err != nil {
		return false, dberr.Wrap(err, "check_permission_usage")
	}
	return attached, nil
}
