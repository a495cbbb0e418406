// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"

	"github.com/taibuivan/yomira-auth/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-auth/internal/users/account"
	"github.com/taibuivan/yomira-auth/internal/users/attempt"
)

// # Contracts

// Authenticator verifies a username and password pair.
type Authenticator interface {
	Authenticate(context context.Context, username, password string) (*account.Principal, error)
}

// ProjectionLookup resolves an account projection by username.
type ProjectionLookup interface {
	Lookup(context context.Context, username string) (*account.Projection, error)
}

// PasswordVerifier compares a plain password with a stored hash.
type PasswordVerifier interface {
	Verify(plainTextPassword, existingHash string) bool
}

// AttemptRecorder receives classified login outcomes.
type AttemptRecorder interface {
	RecordSuccess(context context.Context, attempt attempt.Attempt)
	RecordFailure(context context.Context, attempt attempt.Attempt) bool
	RecordInvalidState(context context.Context, attempt attempt.Attempt)
	RecordLogout(context context.Context, attempt attempt.Attempt)
}

// # Credential Check

// CredentialAuthenticator checks credentials against the account directory.
type CredentialAuthenticator struct {
	accounts ProjectionLookup
	verifier PasswordVerifier
}

// NewCredentialAuthenticator creates the base authenticator.
func NewCredentialAuthenticator(accounts ProjectionLookup, verifier PasswordVerifier) *CredentialAuthenticator {
	return &CredentialAuthenticator{accounts: accounts, verifier: verifier}
}

/*
Authenticate checks existence, then password, then account state.

Description: The state check runs only after the password matched, so a
locked or disabled status is never revealed to someone without the password.

Parameters:
  - context: context.Context
  - username: string
  - password: string

Returns:
  - *account.Principal: The authenticated principal
  - error: [ErrInvalidCredentials], [account.ErrAccountDisabled],
    [account.ErrAccountLocked] or infrastructure failures
*/
func (authenticator *CredentialAuthenticator) Authenticate(context context.Context, username, password string) (*account.Principal, error) {
	projection, err := authenticator.accounts.Lookup(context, username)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !authenticator.verifier.Verify(password, projection.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := account.CheckUsable(projection.Status); err != nil {
		return nil, err
	}

	principal := projection.Principal
	return &principal, nil
}

// # Audit Decorator

// TrackedAuthenticator records the rejections of the wrapped authenticator.
// Successes are recorded by [Service.Login] once the session row exists, so a
// login that fails later never resets the lockout count.
type TrackedAuthenticator struct {
	next     Authenticator
	attempts AttemptRecorder
}

// NewTrackedAuthenticator decorates next with login auditing.
func NewTrackedAuthenticator(next Authenticator, attempts AttemptRecorder) *TrackedAuthenticator {
	return &TrackedAuthenticator{next: next, attempts: attempts}
}

// Authenticate delegates, then audits rejections. Infrastructure errors are
// not recorded since they say nothing about the caller.
func (tracked *TrackedAuthenticator) Authenticate(context context.Context, username, password string) (*account.Principal, error) {
	principal, err := tracked.next.Authenticate(context, username, password)
	if err == nil {
		return principal, nil
	}
	record := attemptOf(context, username, err)

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		tracked.attempts.RecordFailure(context, record)
	case errors.Is(err, account.ErrAccountDisabled), errors.Is(err, account.ErrAccountLocked):
		tracked.attempts.RecordInvalidState(context, record)
	}

	return principal, err
}

// attemptOf builds the audit attempt from the request fingerprint in ctx.
func attemptOf(context context.Context, username string, err error) attempt.Attempt {
	client := ctxutil.GetClient(context)
	record := attempt.Attempt{
		Username:  username,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	}
	if err != nil {
		record.Reason = err.Error()
	}
	return record
}
