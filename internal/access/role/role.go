// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package role administers roles and their permission sets.

Roles are soft-deleted: a deleted role keeps its row and links but grants no
permissions. A role still assigned to an account cannot be deleted at all.
Every mutation clears the account projection cache, since any cached account
may hold the changed role.
*/
package role

import (
	"context"
	"net/http"
	"time"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

// # Domain Errors

var (
	ErrRoleStillAssigned       = apperr.New("ROLE_STILL_ASSIGNED", "Role is still assigned to an account", http.StatusUnprocessableEntity)
	ErrRolePermissionConflict  = apperr.New("ROLE_PERMISSION_CONFLICT", "Permission is already attached to the role", http.StatusConflict)
	ErrRolePermissionNotExists = apperr.New("ROLE_PERMISSION_NOT_EXISTS", "Permission is not attached to the role", http.StatusNotFound)
	ErrRoleNotFound            = apperr.NotFound("Role")
	ErrReservedRoleName        = apperr.Unprocessable("Built-in roles cannot be renamed or deleted")
)

// # Domain Entities

// PermissionRef is a permission as seen from a role.
type PermissionRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Role is a named group of permissions.
type Role struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Deleted     bool            `json:"deleted"`
	Permissions []PermissionRef `json:"permissions"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Filter narrows List results.
type Filter struct {
	Name    string
	Deleted *bool
}

// # Repository Contracts

// Repository is the persistence contract for roles.
type Repository interface {
	List(context context.Context, filter Filter, page pagination.Params) ([]*Role, int, error)

	// FindByID returns the role with its permissions, or [ErrRoleNotFound].
	FindByID(context context.Context, id int64) (*Role, error)

	Create(context context.Context, role *Role) error
	Rename(context context.Context, id int64, name string) error
	SoftDelete(context context.Context, id int64) error
	IsAssigned(context context.Context, id int64) (bool, error)

	// AttachPermission returns false when the link already existed.
	AttachPermission(context context.Context, roleID, permissionID int64) (bool, error)

	// DetachPermission returns false when there was no link to remove.
	DetachPermission(context context.Context, roleID, permissionID int64) (bool, error)
}

// PermissionChecker verifies that a permission exists.
type PermissionChecker interface {
	Exists(context context.Context, id int64) error
}

// CacheInvalidator drops every cached account projection.
type CacheInvalidator interface {
	EvictAll(context context.Context)
}
