// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session persists refresh tokens as server-side sessions.

A refresh token is only worth something while its row is active: not revoked
and not past its expiry. Rotation and revocation flip that state with a single
conditional UPDATE, so two requests presenting the same token cannot both win.
*/
package session

import (
	"context"
	"errors"
	"time"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
)

var (
	// ErrNotActive means no active row matched the (account, jti) pair: the
	// token was revoked, rotated, expired or never issued.
	ErrNotActive = errors.New("session: refresh token is not active")

	// ErrSessionNotFound is returned when a caller targets a session it does not own
	// or that is no longer active.
	ErrSessionNotFound = apperr.NotFound("Session")
)

// RefreshToken is one issued refresh token, identified to clients by its TokenID (jti).
type RefreshToken struct {
	ID        string     `json:"id"`
	AccountID string     `json:"-"`
	TokenID   string     `json:"-"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	Revoked   bool       `json:"revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	IPAddress string     `json:"ip_address"`
	UserAgent string     `json:"user_agent"`
}

// IsActive reports whether the token can still be exchanged at now.
func (token *RefreshToken) IsActive(now time.Time) bool {
	return !token.Revoked && now.Before(token.ExpiresAt)
}

// Repository is the persistence contract for refresh-token sessions.
type Repository interface {

	// Create stores a freshly issued token.
	Create(context context.Context, token *RefreshToken) error

	/*
		Rotate atomically revokes the active token (accountID, tokenID) and stores
		its replacement.

		Returns:
		  - error: [ErrNotActive] when the presented token lost the race or is stale
	*/
	Rotate(context context.Context, accountID, tokenID string, replacement *RefreshToken, now time.Time) error

	// Revoke marks the active token (accountID, tokenID) revoked, or returns [ErrNotActive].
	Revoke(context context.Context, accountID, tokenID string, now time.Time) error

	// RevokeByID revokes one active session by row id, or returns [ErrSessionNotFound].
	RevokeByID(context context.Context, accountID, id string, now time.Time) error

	// ListActive returns the account's active sessions, newest first.
	ListActive(context context.Context, accountID string, now time.Time) ([]*RefreshToken, error)
}
