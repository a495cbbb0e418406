// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/validate"
	"github.com/taibuivan/yomira-auth/pkg/authkey"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

// CacheInvalidator drops every cached account projection.
type CacheInvalidator interface {
	EvictAll(context context.Context)
}

// Service administers permissions.
type Service struct {
	repository Repository
	cache      CacheInvalidator
	logger     *slog.Logger
}

// NewService constructs the permission service.
func NewService(repository Repository, cache CacheInvalidator, logger *slog.Logger) *Service {
	return &Service{repository: repository, cache: cache, logger: logger}
}

// List returns a page of permissions.
func (service *Service) List(context context.Context, filter Filter, page pagination.Params) ([]*Permission, int, error) {
	filter.Name = authkey.Normalize(filter.Name)
	return service.repository.List(context, filter, page)
}

// Exists reports whether the permission id is known.
func (service *Service) Exists(context context.Context, id int64) error {
	_, err := service.repository.FindByID(context, id)
	return err
}

/*
Create registers a permission under its normalized name.

Parameters:
  - context: context.Context
  - name: string (free text, normalized to UPPER_SNAKE)

Returns:
  - *Permission: Created permission
  - error: Validation errors or Conflict on a duplicate name
*/
func (service *Service) Create(context context.Context, name string) (*Permission, error) {
	normalized := authkey.Normalize(name)

	validator := &validate.Validator{}
	validator.Required(constants.FieldName, normalized).
		MaxLen(constants.FieldName, normalized, 64).
		AuthorityName(constants.FieldName, normalized)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	permission := &Permission{Name: normalized}
	if err := service.repository.Create(context, permission); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "permission_created", slog.String("name", permission.Name))
	return permission, nil
}

// Delete removes a permission that no role references.
func (service *Service) Delete(context context.Context, id int64) error {
	if _, err := service.repository.FindByID(context, id); err != nil {
		return err
	}

	attached, err := service.repository.IsAttached(context, id)
	if err != nil {
		return err
	}
	if attached {
		return ErrPermissionInUse
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.cache.EvictAll(context)
	service.logger.InfoContext(context, "permission_deleted", slog.Int64("id", id))
	return nil
}
