// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package permissionfakes provides an in-memory permission repository for tests.
package permissionfakes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/yomira-auth/internal/access/permission"
	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

var _ permission.Repository = (*FakeRepository)(nil)

// FakeRepository keeps permissions in a map with a settable usage flag.
type FakeRepository struct {
	permissions map[int64]*permission.Permission
	attached    map[int64]bool
	nextID      int64
	lock        sync.RWMutex
}

// NewFakeRepository creates an empty repository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		permissions: make(map[int64]*permission.Permission),
		attached:    make(map[int64]bool),
	}
}

// SetAttached marks the permission as referenced by a role.
func (repo *FakeRepository) SetAttached(id int64, attached bool) {
	repo.lock.Lock()
	defer repo.lock.Unlock()
	repo.attached[id] = attached
}

func (repo *FakeRepository) List(_ context.Context, filter permission.Filter, page pagination.Params) ([]*permission.Permission, int, error) {
	repo.lock.RLock()
	defer repo.lock.RUnlock()

	matched := make([]*permission.Permission, 0)
	for _, p := range repo.permissions {
		if filter.Name == "" || strings.Contains(p.Name, filter.Name) {
			copied := *p
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	start := min(page.Offset(), total)
	end := min(start+page.Limit, total)
	return matched[start:end], total, nil
}

func (repo *FakeRepository) FindByID(_ context.Context, id int64) (*permission.Permission, error) {
	repo.lock.RLock()
	defer repo.lock.RUnlock()

	p, ok := repo.permissions[id]
	if !ok {
		return nil, apperr.NotFound("Permission")
	}
	copied := *p
	return &copied, nil
}

func (repo *FakeRepository) Create(_ context.Context, p *permission.Permission) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	for _, existing := range repo.permissions {
		if existing.Name == p.Name {
			return apperr.Conflict("Permission already exists")
		}
	}

	repo.nextID++
	p.ID, p.CreatedAt = repo.nextID, time.Now().UTC()
	copied := *p
	repo.permissions[p.ID] = &copied
	return nil
}

func (repo *FakeRepository) Delete(_ context.Context, id int64) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	if _, ok := repo.permissions[id]; !ok {
		return apperr.NotFound("Permission")
	}
	delete(repo.permissions, id)
	return nil
}

func (repo *FakeRepository) IsAttached(_ context.Context, id int64) (bool, error) {
	repo.lock.RLock()
	defer repo.lock.RUnlock()
	return repo.attached[id], nil
}
