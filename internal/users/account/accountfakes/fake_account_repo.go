// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package accountfakes provides in-memory account collaborators for tests.
package accountfakes

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/users/account"
)

var _ account.Repository = (*FakeRepository)(nil)

// FakeRepository keeps accounts by username and a role catalogue by name.
type FakeRepository struct {
	accounts map[string]*account.Account
	roles    map[string]account.Role
	saves    int
	lock     sync.RWMutex

	// Err, when set, is returned by every method.
	Err error
}

// NewFakeRepository creates an empty repository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		accounts: make(map[string]*account.Account),
		roles:    make(map[string]account.Role),
	}
}

// Put stores a copy of the account as is.
func (repo *FakeRepository) Put(acc *account.Account) {
	repo.lock.Lock()
	defer repo.lock.Unlock()
	repo.accounts[acc.Username] = clone(acc)
}

// AddRole registers a role that Create may link.
func (repo *FakeRepository) AddRole(role account.Role) {
	repo.lock.Lock()
	defer repo.lock.Unlock()
	repo.roles[role.Name] = role
}

// Saves reports how many times Save succeeded.
func (repo *FakeRepository) Saves() int {
	repo.lock.RLock()
	defer repo.lock.RUnlock()
	return repo.saves
}

func (repo *FakeRepository) FindByUsername(_ context.Context, username string) (*account.Account, error) {
	repo.lock.RLock()
	defer repo.lock.RUnlock()
	if repo.Err != nil {
		return nil, repo.Err
	}

	acc, ok := repo.accounts[username]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return clone(acc), nil
}

func (repo *FakeRepository) Save(_ context.Context, acc *account.Account) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()
	if repo.Err != nil {
		return repo.Err
	}

	stored, ok := repo.accounts[acc.Username]
	if !ok || stored.ID != acc.ID {
		return account.ErrAccountNotFound
	}

	acc.UpdatedAt = time.Now().UTC()
	stored.PasswordHash = acc.PasswordHash
	stored.Status = acc.Status
	stored.UpdatedAt = acc.UpdatedAt
	repo.saves++
	return nil
}

func (repo *FakeRepository) Create(_ context.Context, acc *account.Account, roleNames []string) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()
	if repo.Err != nil {
		return repo.Err
	}

	if _, exists := repo.accounts[acc.Username]; exists {
		return apperr.Conflict("Cannot create account: a record with the same key already exists")
	}

	created := clone(acc)
	created.Roles = nil
	for _, name := range roleNames {
		role, ok := repo.roles[name]
		if !ok || role.Deleted {
			return apperr.Unprocessable("One or more roles do not exist")
		}
		created.Roles = append(created.Roles, role)
	}

	now := time.Now().UTC()
	created.CreatedAt, created.UpdatedAt = now, now
	repo.accounts[created.Username] = created
	return nil
}

func clone(acc *account.Account) *account.Account {
	copied := *acc
	copied.Roles = make([]account.Role, len(acc.Roles))
	for i, role := range acc.Roles {
		role.Permissions = slices.Clone(role.Permissions)
		copied.Roles[i] = role
	}
	return &copied
}
