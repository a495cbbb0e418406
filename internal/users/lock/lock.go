// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package lock applies account locks.

Lock instructions come from two places: the login attempt tracker, through a
[LockRequester] (Redis Pub/Sub or inline), and administrators through the HTTP
handler. Both end in [Service.Lock], which is idempotent.
*/
package lock

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yomira-auth/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-auth/internal/users/account"
)

// Evicter drops a cached account projection.
type Evicter interface {
	Evict(context context.Context, username string)
}

// Metrics receives lock counters.
type Metrics interface {
	RecordAccountLocked()
}

// Service transitions accounts to LOCKED.
type Service struct {
	accounts account.Repository
	cache    Evicter
	metrics  Metrics
	logger   *slog.Logger
}

// NewService constructs the lock service.
func NewService(accounts account.Repository, cache Evicter, metrics Metrics, logger *slog.Logger) *Service {
	return &Service{accounts: accounts, cache: cache, metrics: metrics, logger: logger}
}

/*
Lock sets the account's status to LOCKED and evicts its cached projection.

Description: An account that is already LOCKED is returned as is, without
writes, so duplicate deliveries are harmless.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *account.Account: The locked account
  - error: [account.ErrAccountNotFound] or storage failures
*/
func (service *Service) Lock(context context.Context, username string) (*account.Account, error) {
	target, err := service.accounts.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	if target.Status == account.StatusLocked {
		return target, nil
	}

	target.Status = account.StatusLocked
	if err := service.accounts.Save(context, target); err != nil {
		return nil, err
	}

	service.cache.Evict(context, username)
	service.metrics.RecordAccountLocked()
	service.logger.WarnContext(context, "account_locked",
		slog.String("username", username),
		slog.String("locked_by", ctxutil.Actor(context)),
	)

	return target, nil
}

// InlineRequester locks synchronously, in the caller's goroutine.
type InlineRequester struct {
	service *Service
}

// NewInlineRequester adapts the service to the tracker's requester contract.
func NewInlineRequester(service *Service) *InlineRequester {
	return &InlineRequester{service: service}
}

// RequestLock applies the lock immediately.
func (requester *InlineRequester) RequestLock(context context.Context, username string) error {
	_, err := requester.service.Lock(context, username)
	return err
}
