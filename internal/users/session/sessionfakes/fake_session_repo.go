// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sessionfakes provides an in-memory session repository for tests.
package sessionfakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/yomira-auth/internal/users/session"
)

var _ session.Repository = (*FakeRepository)(nil)

// FakeRepository stores tokens by jti. The mutex makes Rotate and Revoke
// atomic, matching the row-level compare-and-set of the real store.
type FakeRepository struct {
	tokens map[string]*session.RefreshToken
	lock   sync.RWMutex

	// CreateErr, when set, fails every Create.
	CreateErr error
}

// NewFakeRepository creates an empty repository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{tokens: make(map[string]*session.RefreshToken)}
}

func (repo *FakeRepository) Create(_ context.Context, token *session.RefreshToken) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()
	if repo.CreateErr != nil {
		return repo.CreateErr
	}
	copied := *token
	repo.tokens[token.TokenID] = &copied
	return nil
}

func (repo *FakeRepository) Rotate(_ context.Context, accountID, tokenID string, replacement *session.RefreshToken, now time.Time) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	if err := repo.revokeLocked(accountID, tokenID, now); err != nil {
		return err
	}
	copied := *replacement
	repo.tokens[replacement.TokenID] = &copied
	return nil
}

func (repo *FakeRepository) Revoke(_ context.Context, accountID, tokenID string, now time.Time) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()
	return repo.revokeLocked(accountID, tokenID, now)
}

func (repo *FakeRepository) RevokeByID(_ context.Context, accountID, id string, now time.Time) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	for _, token := range repo.tokens {
		if token.ID == id && token.AccountID == accountID && token.IsActive(now) {
			token.Revoked = true
			token.RevokedAt = &now
			return nil
		}
	}
	return session.ErrSessionNotFound
}

func (repo *FakeRepository) ListActive(_ context.Context, accountID string, now time.Time) ([]*session.RefreshToken, error) {
	repo.lock.RLock()
	defer repo.lock.RUnlock()

	active := make([]*session.RefreshToken, 0)
	for _, token := range repo.tokens {
		if token.AccountID == accountID && token.IsActive(now) {
			copied := *token
			active = append(active, &copied)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].IssuedAt.After(active[j].IssuedAt)
	})
	return active, nil
}

// Get returns a copy of the token with the given jti.
func (repo *FakeRepository) Get(tokenID string) (*session.RefreshToken, bool) {
	repo.lock.RLock()
	defer repo.lock.RUnlock()
	token, ok := repo.tokens[tokenID]
	if !ok {
		return nil, false
	}
	copied := *token
	return &copied, true
}

// Len reports the number of stored tokens, revoked ones included.
func (repo *FakeRepository) Len() int {
	repo.lock.RLock()
	defer repo.lock.RUnlock()
	return len(repo.tokens)
}

func (repo *FakeRepository) revokeLocked(accountID, tokenID string, now time.Time) error {
	token, ok := repo.tokens[tokenID]
	if !ok || token.AccountID != accountID || !token.IsActive(now) {
		return session.ErrNotActive
	}
	token.Revoked = true
	token.RevokedAt = &now
	return nil
}
