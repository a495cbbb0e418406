// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/database/schema"
	"github.com/taibuivan/yomira-auth/internal/platform/dberr"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

// PostgresRepository implements [Repository] on auth.role and auth.rolepermission.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the role repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List returns one page of roles ordered by name.

Description: Permissions are not loaded for listings; use [FindByID] for the
full role.

Parameters:
  - context: context.Context
  - filter: Filter (name substring, deleted flag)
  - page: pagination.Params

Returns:
  - []*Role: Page of roles
  - int: Total number of matches
  - error: Database errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, page pagination.Params) ([]*Role, int, error) {
	where := fmt.Sprintf(`WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%') AND ($2::boolean IS NULL OR %s = $2)`,
		schema.AuthRole.Name, schema.AuthRole.IsDeleted)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, schema.AuthRole.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, filter.Name, filter.Deleted).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_roles")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s FROM %s %s
		ORDER BY %s ASC
		LIMIT $3 OFFSET $4`,
		schema.AuthRole.ID, schema.AuthRole.Name, schema.AuthRole.IsDeleted,
		schema.AuthRole.CreatedAt, schema.AuthRole.UpdatedAt,
		schema.AuthRole.Table, where,
		schema.AuthRole.Name,
	)

	rows, err := repository.pool.Query(context, query, filter.Name, filter.Deleted, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_roles")
	}
	defer rows.Close()

	roles := make([]*Role, 0)
	for rows.Next() {
		role := &Role{Permissions: make([]PermissionRef, 0)}
		if err := rows.Scan(&role.ID, &role.Name, &role.Deleted, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_role")
		}
		roles = append(roles, role)
	}

	return roles, total, rows.Err()
}

// FindByID loads the role and its permissions.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Role, error) {
	roleQuery := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.AuthRole.ID, schema.AuthRole.Name, schema.AuthRole.IsDeleted,
		schema.AuthRole.CreatedAt, schema.AuthRole.UpdatedAt,
		schema.AuthRole.Table, schema.AuthRole.ID,
	)

	role := &Role{Permissions: make([]PermissionRef, 0)}
	err := repository.pool.QueryRow(context, roleQuery, id).Scan(
		&role.ID, &role.Name, &role.Deleted, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, dberr.Wrap(err, "find_role")
	}

	permissionQuery := fmt.Sprintf(`
		SELECT p.%s, p.%s
		FROM %s rp
		JOIN %s p ON p.%s = rp.%s
		WHERE rp.%s = $1
		ORDER BY p.%s`,
		schema.AuthPermission.ID, schema.AuthPermission.Name,
		schema.AuthRolePermission.Table,
		schema.AuthPermission.Table, schema.AuthPermission.ID, schema.AuthRolePermission.PermissionID,
		schema.AuthRolePermission.RoleID,
		schema.AuthPermission.Name,
	)

	rows, err := repository.pool.Query(context, permissionQuery, id)
	if err != nil {
		return nil, dberr.Wrap(err, "list_role_permissions")
	}
	defer rows.Close()

	for rows.Next() {
		var ref PermissionRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, dberr.Wrap(err, "scan_role_permission")
		}
		role.Permissions = append(role.Permissions, ref)
	}

	return role, rows.Err()
}

// Create inserts the role and fills its id and timestamps.
func (repository *PostgresRepository) Create(context context.Context, role *Role) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING %s, %s, %s`,
		schema.AuthRole.Table, schema.AuthRole.Name,
		schema.AuthRole.ID, schema.AuthRole.CreatedAt, schema.AuthRole.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query, role.Name).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Role already exists")
		}
		return dberr.Wrap(err, "create role")
	}
	return nil
}

// Rename changes the role name.
func (repository *PostgresRepository) Rename(context context.Context, id int64, name string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.AuthRole.Table, schema.AuthRole.Name, schema.AuthRole.UpdatedAt, schema.AuthRole.ID,
	)

	tag, err := repository.pool.Exec(context, query, id, name, time.Now().UTC())
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Role already exists")
		}
		return dberr.Wrap(err, "rename role")
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// SoftDelete flags the role deleted; the row and its links stay.
func (repository *PostgresRepository) SoftDelete(context context.Context, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = $2 WHERE %s = $1`,
		schema.AuthRole.Table, schema.AuthRole.IsDeleted, schema.AuthRole.UpdatedAt, schema.AuthRole.ID,
	)

	tag, err := repository.pool.Exec(context, query, id, time.Now().UTC())
	if err != nil {
		return dberr.Wrap(err, "delete role")
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// IsAssigned reports whether any account holds the role.
func (repository *PostgresRepository) IsAssigned(context context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.AuthAccountRole.Table, schema.AuthAccountRole.RoleID,
	)

	var assigned bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&assigned); err != nil {
		return false, dberr.Wrap(err, "check_role_assignment")
	}
	return assigned, nil
}

// AttachPermission links the permission; an existing link is left alone.
func (repository *PostgresRepository) AttachPermission(context context.Context, roleID, permissionID int64) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) VALUES ($1, $2)
		ON CONFLICT (%s, %s) DO NOTHING`,
		schema.AuthRolePermission.Table, schema.AuthRolePermission.RoleID, schema.AuthRolePermission.PermissionID,
		schema.AuthRolePermission.RoleID, schema.AuthRolePermission.PermissionID,
	)

	tag, err := repository.pool.Exec(context, query, roleID, permissionID)
	if err != nil {
		return false, dberr.Wrap(err, "attach permission")
	}
	return tag.RowsAffected() > 0, nil
}

// DetachPermission removes the link if present.
func (repository *PostgresRepository) DetachPermission(context context.Context, roleID, permissionID int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.AuthRolePermission.Table, schema.AuthRolePermission.RoleID, schema.AuthRolePermission.PermissionID,
	)

	tag, err := repository.pool.Exec(context, query, roleID, permissionID)
	if err != nil {
		return false, dberr.Wrap(err, "detach permission")
	}
	return tag.RowsAffected() > 0, nil
}
