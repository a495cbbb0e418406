// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-auth/internal/platform/sec"
	"github.com/taibuivan/yomira-auth/internal/users/account"
	"github.com/taibuivan/yomira-auth/internal/users/session"
	"github.com/taibuivan/yomira-auth/pkg/ids"
)

// TokenSigner mints signed tokens.
type TokenSigner interface {
	IssueAccessToken(identity sec.Identity, ttl time.Duration) (string, error)
	IssueRefreshToken(subject, tokenID string, ttl time.Duration) (string, error)
}

// TokenPair is the response of a successful login or refresh.
type TokenPair struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	Username     string   `json:"username"`
	Roles        []string `json:"roles"`
}

// Issuer mints token pairs and the session rows backing their refresh tokens.
type Issuer struct {
	signer     TokenSigner
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer creates an issuer with the configured lifetimes.
func NewIssuer(signer TokenSigner, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{signer: signer, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

/*
Issue signs an access/refresh pair for principal.

Description: The refresh token gets a fresh random jti; the returned session
row carries the same jti and the caller's device fingerprint. Nothing is
persisted here.

Parameters:
  - context: context.Context (source of the device fingerprint)
  - principal: *account.Principal
  - now: time.Time (issued-at of the session row)

Returns:
  - *TokenPair: Signed tokens
  - *session.RefreshToken: Row to persist
  - error: Signing failures
*/
func (issuer *Issuer) Issue(context context.Context, principal *account.Principal, now time.Time) (*TokenPair, *session.RefreshToken, error) {
	accessToken, err := issuer.signer.IssueAccessToken(principal.Identity(), issuer.accessTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_issue_access_token_failed: %w", err)
	}

	tokenID := ids.NewTokenID()
	refreshToken, err := issuer.signer.IssueRefreshToken(principal.Username, tokenID, issuer.refreshTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_issue_refresh_token_failed: %w", err)
	}

	client := ctxutil.GetClient(context)
	row := &session.RefreshToken{
		ID:        ids.NewUUIDv7(),
		AccountID: principal.AccountID,
		TokenID:   tokenID,
		IssuedAt:  now,
		ExpiresAt: now.Add(issuer.refreshTTL),
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	}

	pair := &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constants.TokenTypeBearer,
		ExpiresIn:    int64(issuer.accessTTL.Seconds()),
		Username:     principal.Username,
		Roles:        principal.Roles,
	}

	return pair, row, nil
}
