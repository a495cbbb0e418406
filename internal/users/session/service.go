// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/yomira-auth/pkg/ids"
)

// Evicter drops the cached projection of an account.
type Evicter interface {
	Evict(context context.Context, username string)
}

// Service exposes a caller's own sessions.
type Service struct {
	repository Repository
	cache      Evicter
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs the session service with the wall clock.
func NewService(repository Repository, cache Evicter, logger *slog.Logger) *Service {
	return &Service{repository: repository, cache: cache, logger: logger, now: time.Now}
}

// ListActive returns the active sessions of the account.
func (service *Service) ListActive(context context.Context, accountID string) ([]*RefreshToken, error) {
	return service.repository.ListActive(context, accountID, service.now().UTC())
}

// Revoke ends one of the account's sessions and evicts the owner's cached
// projection. Ids that are malformed or owned by someone else are
// indistinguishable from missing ones.
func (service *Service) Revoke(context context.Context, accountID, username, id string) error {
	if !ids.IsUUID(id) {
		return ErrSessionNotFound
	}

	if err := service.repository.RevokeByID(context, accountID, id, service.now().UTC()); err != nil {
		return err
	}
	service.cache.Evict(context, username)

	service.logger.InfoContext(context, "session_revoked",
		slog.String("account_id", accountID),
		slog.String("session_id", id),
	)
	return nil
}
