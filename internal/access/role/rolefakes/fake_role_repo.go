// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package rolefakes provides an in-memory role repository for tests.
package rolefakes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/yomira-auth/internal/access/role"
	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

var _ role.Repository = (*FakeRepository)(nil)

// FakeRepository keeps roles, permission links and account assignments in maps.
type FakeRepository struct {
	roles       map[int64]*role.Role
	links       map[int64]map[int64]bool
	permissions map[int64]string
	assigned    map[int64]bool
	nextID      int64
	lock        sync.RWMutex
}

// NewFakeRepository creates an empty repository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		roles:       make(map[int64]*role.Role),
		links:       make(map[int64]map[int64]bool),
		permissions: make(map[int64]string),
		assigned:    make(map[int64]bool),
	}
}

// AddPermission names a permission id so FindByID can render links.
func (repo *FakeRepository) AddPermission(id int64, name string) {
	repo.lock.Lock()
	defer repo.lock.Unlock()
	repo.permissions[id] = name
}

// SetAssigned marks the role as held by some account.
func (repo *FakeRepository) SetAssigned(id int64, assigned bool) {
	repo.lock.Lock()
	defer repo.lock.Unlock()
	repo.assigned[id] = assigned
}

func (repo *FakeRepository) List(_ context.Context, filter role.Filter, page pagination.Params) ([]*role.Role, int, error) {
	repo.lock.RLock()
	defer repo.lock.RUnlock()

	matched := make([]*role.Role, 0)
	for _, r := range repo.roles {
		if filter.Name != "" && !strings.Contains(r.Name, filter.Name) {
			continue
		}
		if filter.Deleted != nil && r.Deleted != *filter.Deleted {
			continue
		}
		copied := *r
		copied.Permissions = make([]role.PermissionRef, 0)
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	start := min(page.Offset(), total)
	end := min(start+page.Limit, total)
	return matched[start:end], total, nil
}

func (repo *FakeRepository) FindByID(_ context.Context, id int64) (*role.Role, error) {
	repo.lock.RLock()
	defer repo.lock.RUnlock()

	r, ok := repo.roles[id]
	if !ok {
		return nil, role.ErrRoleNotFound
	}

	copied := *r
	copied.Permissions = make([]role.PermissionRef, 0)
	for permissionID := range repo.links[id] {
		copied.Permissions = append(copied.Permissions, role.PermissionRef{ID: permissionID, Name: repo.permissions[permissionID]})
	}
	sort.Slice(copied.Permissions, func(i, j int) bool { return copied.Permissions[i].Name < copied.Permissions[j].Name })
	return &copied, nil
}

func (repo *FakeRepository) Create(_ context.Context, r *role.Role) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	if repo.nameTaken(r.Name, 0) {
		return apperr.Conflict("Role already exists")
	}

	repo.nextID++
	now := time.Now().UTC()
	r.ID, r.CreatedAt, r.UpdatedAt = repo.nextID, now, now

	copied := *r
	repo.roles[r.ID] = &copied
	return nil
}

func (repo *FakeRepository) Rename(_ context.Context, id int64, name string) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	r, ok := repo.roles[id]
	if !ok {
		return role.ErrRoleNotFound
	}
	if repo.nameTaken(name, id) {
		return apperr.Conflict("Role already exists")
	}
	r.Name = name
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *FakeRepository) SoftDelete(_ context.Context, id int64) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	r, ok := repo.roles[id]
	if !ok {
		return role.ErrRoleNotFound
	}
	r.Deleted = true
	return nil
}

func (repo *FakeRepository) IsAssigned(_ context.Context, id int64) (bool, error) {
	repo.lock.RLock()
	defer repo.lock.RUnlock()
	return repo.assigned[id], nil
}

func (repo *FakeRepository) AttachPermission(_ context.Context, roleID, permissionID int64) (bool, error) {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	if repo.links[roleID] == nil {
		repo.links[roleID] = make(map[int64]bool)
	}
	if repo.links[roleID][permissionID] {
		return false, nil
	}
	repo.links[roleID][permissionID] = true
	return true, nil
}

func (repo *FakeRepository) DetachPermission(_ context.Context, roleID, permissionID int64) (bool, error) {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	if !repo.links[roleID][permissionID] {
		return false, nil
	}
	delete(repo.links[roleID], permissionID)
	return true, nil
}

func (repo *FakeRepository) nameTaken(name string, except int64) bool {
	for id, r := range repo.roles {
		if id != except && r.Name == name {
			return true
		}
	}
	return false
}
