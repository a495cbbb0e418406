// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
)

// # Domain Errors

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password,
	// so callers cannot probe which usernames exist.
	ErrInvalidCredentials = apperr.New("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)

	// ErrInvalidToken is the single client-facing outcome for any refresh token
	// that cannot be honoured: malformed, mis-signed, expired, of the wrong type,
	// revoked, rotated or unknown.
	ErrInvalidToken = apperr.New("INVALID_TOKEN", "Invalid or expired token", http.StatusUnauthorized)

	// ErrTokenOwnerMismatch is returned when a caller tries to log out a refresh
	// token that belongs to another account.
	ErrTokenOwnerMismatch = apperr.New("FORBIDDEN", "Token does not belong to the caller", http.StatusForbidden)
)
