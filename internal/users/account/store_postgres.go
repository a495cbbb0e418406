// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

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
	"github.com/taibuivan/yomira-auth/pkg/slice"
)

// PostgresRepository implements [Repository] on the auth schema.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the account repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindByUsername loads the account row and then its role graph.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *Account: Account with roles and permissions
  - error: [ErrAccountNotFound] or database errors
*/
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.AuthAccount.ID, schema.AuthAccount.Username, schema.AuthAccount.Password,
		schema.AuthAccount.Status, schema.AuthAccount.CreatedAt, schema.AuthAccount.UpdatedAt,
		schema.AuthAccount.Table,
		schema.AuthAccount.Username,
	)

	account := &Account{}
	err := repository.pool.QueryRow(context, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("postgres_account_find_by_username_failed: %w", err)
	}

	roles, err := repository.loadRoles(context, account.ID)
	if err != nil {
		return nil, err
	}
	account.Roles = roles

	return account, nil
}

// loadRoles fetches every linked role, soft-deleted ones included, with its permissions.
func (repository *PostgresRepository) loadRoles(context context.Context, accountID string) ([]Role, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, p.%s, p.%s
		FROM %s ar
		JOIN %s r ON r.%s = ar.%s
		LEFT JOIN %s rp ON rp.%s = r.%s
		LEFT JOIN %s p ON p.%s = rp.%s
		WHERE ar.%s = $1
		ORDER BY r.%s, p.%s`,
		schema.AuthRole.ID, schema.AuthRole.Name, schema.AuthRole.IsDeleted,
		schema.AuthPermission.ID, schema.AuthPermission.Name,
		schema.AuthAccountRole.Table,
		schema.AuthRole.Table, schema.AuthRole.ID, schema.AuthAccountRole.RoleID,
		schema.AuthRolePermission.Table, schema.AuthRolePermission.RoleID, schema.AuthRole.ID,
		schema.AuthPermission.Table, schema.AuthPermission.ID, schema.AuthRolePermission.PermissionID,
		schema.AuthAccountRole.AccountID,
		schema.AuthRole.Name, schema.AuthPermission.Name,
	)

	rows, err := repository.pool.Query(context, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_load_roles_failed: %w", err)
	}
	defer rows.Close()

	roles := make([]Role, 0)
	index := make(map[int64]int)

	for rows.Next() {
		var (
			role           Role
			permissionID   *int64
			permissionName *string
		)
		if err := rows.Scan(&role.ID, &role.Name, &role.Deleted, &permissionID, &permissionName); err != nil {
			return nil, fmt.Errorf("postgres_account_scan_role_failed: %w", err)
		}

		position, seen := index[role.ID]
		if !seen {
			role.Permissions = make([]Permission, 0)
			roles = append(roles, role)
			position = len(roles) - 1
			index[role.ID] = position
		}

		// LEFT JOIN yields NULLs for roles without permissions
		if permissionID != nil && permissionName != nil {
			roles[position].Permissions = append(roles[position].Permissions, Permission{ID: *permissionID, Name: *permissionName})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_account_iterate_roles_failed: %w", err)
	}

	return roles, nil
}

// Save writes the password hash and status of an existing account.
func (repository *PostgresRepository) Save(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4
		WHERE %s = $1`,
		schema.AuthAccount.Table,
		schema.AuthAccount.Password, schema.AuthAccount.Status, schema.AuthAccount.UpdatedAt,
		schema.AuthAccount.ID,
	)

	account.UpdatedAt = time.Now().UTC()

	tag, err := repository.pool.Exec(context, query, account.ID, account.PasswordHash, account.Status, account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_account_save_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

/*
Create inserts the account and links the named roles in one transaction.

Parameters:
  - context: context.Context
  - account: *Account (ID must be set)
  - roleNames: []string

Returns:
  - error: Conflict on duplicate username, Unprocessable on an unknown role
*/
func (repository *PostgresRepository) Create(context context.Context, account *Account, roleNames []string) error {
	insertAccount := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.AuthAccount.Table,
		schema.AuthAccount.ID, schema.AuthAccount.Username, schema.AuthAccount.Password,
		schema.AuthAccount.Status, schema.AuthAccount.CreatedAt, schema.AuthAccount.UpdatedAt,
	)

	linkRoles := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT $1, %s FROM %s
		WHERE %s = ANY($2) AND NOT %s`,
		schema.AuthAccountRole.Table, schema.AuthAccountRole.AccountID, schema.AuthAccountRole.RoleID,
		schema.AuthRole.ID, schema.AuthRole.Table,
		schema.AuthRole.Name, schema.AuthRole.IsDeleted,
	)

	roleNames = slice.Unique(roleNames)

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	return pgx.BeginFunc(context, repository.pool, func(transaction pgx.Tx) error {
		if _, err := transaction.Exec(context, insertAccount,
			account.ID,
			account.Username,
			account.PasswordHash,
			account.Status,
			account.CreatedAt,
			account.UpdatedAt,
		); err != nil {
			return dberr.Wrap(err, "create account")
		}

		if len(roleNames) == 0 {
			return nil
		}

		tag, err := transaction.Exec(context, linkRoles, account.ID, roleNames)
		if err != nil {
			return dberr.Wrap(err, "link account roles")
		}
		if int(tag.RowsAffected()) != len(roleNames) {
			return apperr.Unprocessable("One or more roles do not exist")
		}

		return nil
	})
}
