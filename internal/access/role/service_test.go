// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/access/permission"
	"github.com/taibuivan/yomira-auth/internal/access/permission/permissionfakes"
	"github.com/taibuivan/yomira-auth/internal/access/role"
	"github.com/taibuivan/yomira-auth/internal/access/role/rolefakes"
	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type countingInvalidator struct{ clears atomic.Int32 }

func (c *countingInvalidator) EvictAll(context.Context) { c.clears.Add(1) }

type fixture struct {
	roles       *rolefakes.FakeRepository
	permissions *permission.Service
	cache       *countingInvalidator
	service     *role.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cache := &countingInvalidator{}
	roles := rolefakes.NewFakeRepository()
	permissions := permission.NewService(permissionfakes.NewFakeRepository(), cache, discard)

	f := &fixture{
		roles:       roles,
		permissions: permissions,
		cache:       cache,
		service:     role.NewService(roles, permissions, cache, discard),
	}
	return f
}

func (f *fixture) createRole(t *testing.T, name string) *role.Role {
	t.Helper()
	created, err := f.service.Create(t.Context(), name)
	require.NoError(t, err)
	return created
}

func (f *fixture) createPermission(t *testing.T, name string) *permission.Permission {
	t.Helper()
	created, err := f.permissions.Create(t.Context(), name)
	require.NoError(t, err)
	f.roles.AddPermission(created.ID, created.Name)
	return created
}

/*
TestService_Create verifies name normalization, validation and uniqueness.
*/
func TestService_Create(t *testing.T) {
	f := newFixture(t)

	created := f.createRole(t, "  support agent ")
	assert.Equal(t, "SUPPORT_AGENT", created.Name)
	assert.Empty(t, created.Permissions)

	_, err := f.service.Create(t.Context(), "Support-Agent")
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = f.service.Create(t.Context(), "   ")
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	assert.Zero(t, f.cache.clears.Load())
}

func TestService_List(t *testing.T) {
	f := newFixture(t)
	f.createRole(t, "user")
	f.createRole(t, "admin")
	f.createRole(t, "auditor")

	roles, total, err := f.service.List(t.Context(), role.Filter{Name: "a"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "ADMIN", roles[0].Name)
	assert.Equal(t, "AUDITOR", roles[1].Name)
}

func TestService_Rename(t *testing.T) {
	f := newFixture(t)
	admin := f.createRole(t, "admin")
	user := f.createRole(t, "user")
	f.createRole(t, "guest")

	renamed, err := f.service.Rename(t.Context(), user.ID, "member")
	require.NoError(t, err)
	assert.Equal(t, "MEMBER", renamed.Name)
	assert.Equal(t, int32(1), f.cache.clears.Load())

	_, err = f.service.Rename(t.Context(), user.ID, "guest")
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = f.service.Rename(t.Context(), admin.ID, "root")
	assert.ErrorIs(t, err, role.ErrReservedRoleName)

	_, err = f.service.Rename(t.Context(), 999, "ghost")
	assert.ErrorIs(t, err, role.ErrRoleNotFound)
}

/*
TestService_Delete covers the reserved role, assigned roles and the soft delete.
*/
func TestService_Delete(t *testing.T) {
	f := newFixture(t)
	admin := f.createRole(t, "admin")
	user := f.createRole(t, "user")

	assert.ErrorIs(t, f.service.Delete(t.Context(), admin.ID), role.ErrReservedRoleName)

	f.roles.SetAssigned(user.ID, true)
	assert.ErrorIs(t, f.service.Delete(t.Context(), user.ID), role.ErrRoleStillAssigned)

	f.roles.SetAssigned(user.ID, false)
	require.NoError(t, f.service.Delete(t.Context(), user.ID))
	assert.Equal(t, int32(1), f.cache.clears.Load())

	deleted := true
	roles, _, err := f.service.List(t.Context(), role.Filter{Deleted: &deleted}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "USER", roles[0].Name)
}

func TestService_Permissions(t *testing.T) {
	f := newFixture(t)
	user := f.createRole(t, "user")
	read := f.createPermission(t, "session read")

	// 1. Attach
	updated, err := f.service.AttachPermission(t.Context(), user.ID, read.ID)
	require.NoError(t, err)
	require.Len(t, updated.Permissions, 1)
	assert.Equal(t, "SESSION_READ", updated.Permissions[0].Name)

	_, err = f.service.AttachPermission(t.Context(), user.ID, read.ID)
	assert.ErrorIs(t, err, role.ErrRolePermissionConflict)

	_, err = f.service.AttachPermission(t.Context(), user.ID, 999)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	_, err = f.service.AttachPermission(t.Context(), 999, read.ID)
	assert.ErrorIs(t, err, role.ErrRoleNotFound)

	// 2. Detach
	updated, err = f.service.DetachPermission(t.Context(), user.ID, read.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Permissions)

	_, err = f.service.DetachPermission(t.Context(), user.ID, read.ID)
	assert.ErrorIs(t, err, role.ErrRolePermissionNotExists)

	assert.Equal(t, int32(2), f.cache.clears.Load())
}
