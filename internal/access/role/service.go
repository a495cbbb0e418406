// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/validate"
	"github.com/taibuivan/yomira-auth/pkg/authkey"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

// Service administers roles.
type Service struct {
	repository  Repository
	permissions PermissionChecker
	cache       CacheInvalidator
	logger      *slog.Logger
}

// NewService constructs the role service.
func NewService(repository Repository, permissions PermissionChecker, cache CacheInvalidator, logger *slog.Logger) *Service {
	return &Service{repository: repository, permissions: permissions, cache: cache, logger: logger}
}

// List returns a page of roles.
func (service *Service) List(context context.Context, filter Filter, page pagination.Params) ([]*Role, int, error) {
	filter.Name = authkey.Normalize(filter.Name)
	return service.repository.List(context, filter, page)
}

// Find returns the role with its permissions.
func (service *Service) Find(context context.Context, id int64) (*Role, error) {
	return service.repository.FindByID(context, id)
}

// Create registers a role under its normalized name.
func (service *Service) Create(context context.Context, name string) (*Role, error) {
	normalized, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	role := &Role{Name: normalized, Permissions: make([]PermissionRef, 0)}
	if err := service.repository.Create(context, role); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "role_created", slog.String("name", role.Name))
	return role, nil
}

/*
Rename changes a role's name. The ADMIN role is fixed.

Returns:
  - *Role: Updated role
  - error: Validation, NotFound, Conflict or [ErrReservedRoleName]
*/
func (service *Service) Rename(context context.Context, id int64, name string) (*Role, error) {
	normalized, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	current, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if current.Name == constants.RoleAdmin {
		return nil, ErrReservedRoleName
	}

	if err := service.repository.Rename(context, id, normalized); err != nil {
		return nil, err
	}

	service.cache.EvictAll(context)
	service.logger.InfoContext(context, "role_renamed",
		slog.String("from", current.Name),
		slog.String("to", normalized),
	)

	return service.repository.FindByID(context, id)
}

/*
Delete soft-deletes a role that no account holds.

Returns:
  - error: NotFound, [ErrRoleStillAssigned] or [ErrReservedRoleName]
*/
func (service *Service) Delete(context context.Context, id int64) error {
	current, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}
	if current.Name == constants.RoleAdmin {
		return ErrReservedRoleName
	}

	assigned, err := service.repository.IsAssigned(context, id)
	if err != nil {
		return err
	}
	if assigned {
		return ErrRoleStillAssigned
	}

	if err := service.repository.SoftDelete(context, id); err != nil {
		return err
	}

	service.cache.EvictAll(context)
	service.logger.InfoContext(context, "role_deleted", slog.String("name", current.Name))
	return nil
}

// AttachPermission grants a permission to the role.
func (service *Service) AttachPermission(context context.Context, roleID, permissionID int64) (*Role, error) {
	if _, err := service.repository.FindByID(context, roleID); err != nil {
		return nil, err
	}
	if err := service.permissions.Exists(context, permissionID); err != nil {
		return nil, err
	}

	attached, err := service.repository.AttachPermission(context, roleID, permissionID)
	if err != nil {
		return nil, err
	}
	if !attached {
		return nil, ErrRolePermissionConflict
	}

	service.cache.EvictAll(context)
	return service.repository.FindByID(context, roleID)
}

// DetachPermission revokes a permission from the role.
func (service *Service) DetachPermission(context context.Context, roleID, permissionID int64) (*Role, error) {
	if _, err := service.repository.FindByID(context, roleID); err != nil {
		return nil, err
	}

	detached, err := service.repository.DetachPermission(context, roleID, permissionID)
	if err != nil {
		return nil, err
	}
	if !detached {
		return nil, ErrRolePermissionNotExists
	}

	service.cache.EvictAll(context)
	return service.repository.FindByID(context, roleID)
}

func normalizeName(name string) (string, error) {
	normalized := authkey.Normalize(name)

	validator := &validate.Validator{}
	validator.Required(constants.FieldName, normalized).
		MaxLen(constants.FieldName, normalized, 64).
		AuthorityName(constants.FieldName, normalized)

	return normalized, validator.Err()
}
