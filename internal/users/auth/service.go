// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the token lifecycle: login, refresh rotation,
revocation and logout.

Architecture:

  - Authenticator: credential check, decorated by the login audit.
  - Issuer: signs access/refresh pairs and builds their session rows.
  - RefreshProcessor: validates presented refresh tokens.
  - Service: orchestrates the flows over the account and session stores.

Refresh tokens are single use. Rotation revokes the presented token and stores
its successor in one transaction; a replayed token finds nothing to revoke.
*/
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/yomira-auth/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-auth/internal/platform/metrics"
	"github.com/taibuivan/yomira-auth/internal/users/account"
	"github.com/taibuivan/yomira-auth/internal/users/attempt"
	"github.com/taibuivan/yomira-auth/internal/users/session"
)

// # Contracts & Types

// Evicter drops a cached account projection.
type Evicter interface {
	Evict(context context.Context, username string)
}

// Metrics receives flow outcomes.
type Metrics interface {
	RecordLogin(outcome string)
	RecordRefresh(outcome string)
	RecordLogout(outcome string)
}

// Dependencies groups the collaborators of [Service].
type Dependencies struct {
	Authenticator Authenticator
	Processor     *RefreshProcessor
	Issuer        *Issuer
	Accounts      account.Repository
	Sessions      session.Repository
	Cache         Evicter
	Attempts      AttemptRecorder
	Metrics       Metrics
	Logger        *slog.Logger
	Clock         func() time.Time
}

// Service implements the authentication use cases.
type Service struct {
	authenticator Authenticator
	processor     *RefreshProcessor
	issuer        *Issuer
	accounts      account.Repository
	sessions      session.Repository
	cache         Evicter
	attempts      AttemptRecorder
	metrics       Metrics
	logger        *slog.Logger
	now           func() time.Time
}

// NewService constructs the service. A nil Clock means the wall clock.
func NewService(deps Dependencies) *Service {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	return &Service{
		authenticator: deps.Authenticator,
		processor:     deps.Processor,
		issuer:        deps.Issuer,
		accounts:      deps.Accounts,
		sessions:      deps.Sessions,
		cache:         deps.Cache,
		attempts:      deps.Attempts,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		now:           now,
	}
}

// # Login Flow

/*
Login authenticates the caller and opens a new session.

Parameters:
  - context: context.Context
  - username: string
  - password: string

Returns:
  - *TokenPair: Access and refresh tokens
  - error: [ErrInvalidCredentials], account state errors or infrastructure failures
*/
func (service *Service) Login(context context.Context, username, password string) (pair *TokenPair, err error) {
	defer func() { service.metrics.RecordLogin(metrics.Outcome(err)) }()

	principal, err := service.authenticator.Authenticate(context, username, password)
	if err != nil {
		return nil, err
	}

	pair, row, err := service.issuer.Issue(context, principal, service.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := service.sessions.Create(context, row); err != nil {
		return nil, err
	}
	service.attempts.RecordSuccess(context, attemptOf(context, principal.Username, nil))

	ctxutil.GetLogger(context).InfoContext(context, "login_succeeded", slog.String("username", principal.Username))
	return pair, nil
}

// # Refresh Flow

/*
Refresh trades a refresh token for a new pair and retires the presented one.

Description: The account is read from Postgres rather than the cache so a
fresh lock or disable is honoured immediately.

Parameters:
  - context: context.Context
  - rawToken: string

Returns:
  - *TokenPair: Rotated tokens
  - error: [ErrInvalidToken], [account.ErrAccountNotFound], account state errors
*/
func (service *Service) Refresh(context context.Context, rawToken string) (pair *TokenPair, err error) {
	defer func() { service.metrics.RecordRefresh(metrics.Outcome(err)) }()

	// 1-3. Validate token and owner
	data, owner, err := service.resolveOwner(context, rawToken)
	if err != nil {
		return nil, err
	}

	// 4. Sign the successor before touching the store
	now := service.now().UTC()
	pair, row, err := service.issuer.Issue(context, account.PrincipalOf(owner), now)
	if err != nil {
		return nil, err
	}

	// 5. Compare-and-set rotation
	if err := service.sessions.Rotate(context, owner.ID, data.TokenID, row, now); err != nil {
		if errors.Is(err, session.ErrNotActive) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return pair, nil
}

// # Revocation Flow

/*
Revoke retires a refresh token and evicts the owner's cached projection.

Returns:
  - string: Username the token belonged to
  - error: [ErrInvalidToken], [account.ErrAccountNotFound], account state errors
*/
func (service *Service) Revoke(context context.Context, rawToken string) (string, error) {
	data, owner, err := service.resolveOwner(context, rawToken)
	if err != nil {
		return "", err
	}

	return owner.Username, service.revoke(context, data, owner)
}

/*
Logout revokes the caller's refresh token.

Parameters:
  - context: context.Context
  - rawToken: string (refresh token)
  - actor: string (username from the bearer access token)

Returns:
  - error: [ErrTokenOwnerMismatch] if the token belongs to another account,
    otherwise as [Service.Revoke]
*/
func (service *Service) Logout(context context.Context, rawToken, actor string) (err error) {
	defer func() { service.metrics.RecordLogout(metrics.Outcome(err)) }()

	data, err := service.processor.Process(rawToken)
	if err != nil {
		return err
	}
	if data.Username != actor {
		return ErrTokenOwnerMismatch
	}

	owner, err := service.loadActive(context, data.Username)
	if err != nil {
		return err
	}

	if err := service.revoke(context, data, owner); err != nil {
		return err
	}

	client := ctxutil.GetClient(context)
	service.attempts.RecordLogout(context, attempt.Attempt{
		Username:  owner.Username,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	})

	ctxutil.GetLogger(context).InfoContext(context, "logout_succeeded", slog.String("username", owner.Username))
	return nil
}

// # Helpers

// resolveOwner runs the processor and loads the token's ACTIVE owner.
func (service *Service) resolveOwner(context context.Context, rawToken string) (*RefreshData, *account.Account, error) {
	data, err := service.processor.Process(rawToken)
	if err != nil {
		return nil, nil, err
	}

	owner, err := service.loadActive(context, data.Username)
	if err != nil {
		return nil, nil, err
	}

	return data, owner, nil
}

func (service *Service) loadActive(context context.Context, username string) (*account.Account, error) {
	owner, err := service.accounts.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}
	if err := account.CheckUsable(owner.Status); err != nil {
		return nil, err
	}
	return owner, nil
}

func (service *Service) revoke(context context.Context, data *RefreshData, owner *account.Account) error {
	if err := service.sessions.Revoke(context, owner.ID, data.TokenID, service.now().UTC()); err != nil {
		if errors.Is(err, session.ErrNotActive) {
			return ErrInvalidToken
		}
		return err
	}

	service.cache.Evict(context, owner.Username)
	return nil
}
