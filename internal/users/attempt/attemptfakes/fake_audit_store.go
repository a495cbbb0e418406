// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package attemptfakes provides in-memory audit and lock collaborators for tests.
package attemptfakes

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/yomira-auth/internal/users/attempt"
)

var (
	_ attempt.Store         = (*FakeStore)(nil)
	_ attempt.LockRequester = (*FakeLockRequester)(nil)
)

// FakeStore is an append-only slice of records.
type FakeStore struct {
	records []*attempt.Record
	lock    sync.RWMutex

	// AppendErr, when set, makes Append fail.
	AppendErr error
}

// NewFakeStore creates an empty store.
func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (store *FakeStore) Append(_ context.Context, record *attempt.Record) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	if store.AppendErr != nil {
		return store.AppendErr
	}
	copied := *record
	store.records = append(store.records, &copied)
	return nil
}

func (store *FakeStore) Recent(_ context.Context, username string, actions []attempt.Action, since, until time.Time, limit int) ([]*attempt.Record, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	// Newest first, as the SQL orders before LIMIT
	matched := make([]*attempt.Record, 0, limit)
	for i := len(store.records) - 1; i >= 0 && len(matched) < limit; i-- {
		record := store.records[i]
		if record.Username != username || !slices.Contains(actions, record.Action) {
			continue
		}
		if record.AttemptedAt.Before(since) || record.AttemptedAt.After(until) {
			continue
		}
		copied := *record
		matched = append(matched, &copied)
	}

	slices.Reverse(matched)
	return matched, nil
}

// Actions returns the recorded actions for username in append order.
func (store *FakeStore) Actions(username string) []attempt.Action {
	store.lock.RLock()
	defer store.lock.RUnlock()

	var actions []attempt.Action
	for _, record := range store.records {
		if record.Username == username {
			actions = append(actions, record.Action)
		}
	}
	return actions
}

// Records returns copies of every stored record.
func (store *FakeStore) Records() []attempt.Record {
	store.lock.RLock()
	defer store.lock.RUnlock()

	records := make([]attempt.Record, 0, len(store.records))
	for _, record := range store.records {
		records = append(records, *record)
	}
	return records
}

// FakeLockRequester records requested usernames, optionally forwarding them.
type FakeLockRequester struct {
	requested []string
	lock      sync.Mutex

	// Forward, when set, is called for each request.
	Forward func(context context.Context, username string) error
	// Err, when set, is returned instead of forwarding.
	Err error
}

func (requester *FakeLockRequester) RequestLock(context context.Context, username string) error {
	requester.lock.Lock()
	requester.requested = append(requester.requested, username)
	requester.lock.Unlock()

	if requester.Err != nil {
		return requester.Err
	}
	if requester.Forward != nil {
		return requester.Forward(context, username)
	}
	return nil
}

// Requested returns the usernames passed to RequestLock.
func (requester *FakeLockRequester) Requested() []string {
	requester.lock.Lock()
	defer requester.lock.Unlock()
	return append([]string(nil), requester.requested...)
}
