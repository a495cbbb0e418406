// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package permission administers the permission catalogue.
package permission

import (
	"context"
	"net/http"
	"time"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

// ErrPermissionInUse is returned when deleting a permission still attached to a role.
var ErrPermissionInUse = apperr.New("PERMISSION_IN_USE", "Permission is still attached to a role", http.StatusUnprocessableEntity)

// Permission is a named capability.
type Permission struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows List results. An empty Name matches everything.
type Filter struct {
	Name string
}

// Repository is the persistence contract for permissions.
type Repository interface {
	List(context context.Context, filter Filter, page pagination.Params) ([]*Permission, int, error)
	FindByID(context context.Context, id int64) (*Permission, error)
	Create(context context.Context, permission *Permission) error
	Delete(context context.Context, id int64) error
	IsAttached(context context.Context, id int64) (bool, error)
}
