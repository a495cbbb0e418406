// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package attempt keeps the login audit trail and the lockout policy built on it.

Every authentication outcome is appended to auth.loginaudit. On a failed
credential check the [Tracker] replays the most recent attempts inside the
policy window and, when the failures are consecutive and numerous enough, asks
for the account to be locked.
*/
package attempt

import (
	"context"
	"time"
)

// # Audit Actions

// Action is the smallint stored in auth.loginaudit.action.
type Action int16

const (
	ActionLoginSuccess            Action = 10
	ActionLoginFailedCredential   Action = -11
	ActionLoginFailedInvalidState Action = -12
	ActionLogout                  Action = 20
	ActionSessionExpired          Action = 30
)

// String renders the action name used in logs.
func (a Action) String() string {
	switch a {
	case ActionLoginSuccess:
		return "LOGIN_SUCCESS"
	case ActionLoginFailedCredential:
		return "LOGIN_FAILED_INVALID_CREDENTIAL"
	case ActionLoginFailedInvalidState:
		return "LOGIN_FAILED_INVALID_STATE"
	case ActionLogout:
		return "LOGOUT"
	case ActionSessionExpired:
		return "SESSION_EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// # Entities

// Attempt describes one authentication event as observed at the edge.
type Attempt struct {
	Username  string
	Reason    string
	IPAddress string
	UserAgent string
}

// Record is one persisted audit row.
type Record struct {
	ID          string
	Username    string
	Action      Action
	AttemptedAt time.Time
	IPAddress   string
	UserAgent   string
}

// # Contracts

// Store is the append-only audit log.
type Store interface {

	// Append writes one row in its own statement, outside any caller transaction.
	Append(context context.Context, record *Record) error

	/*
		Recent returns at most limit rows for username with one of the given
		actions and attemptedat within [since, until], ordered oldest first.
	*/
	Recent(context context.Context, username string, actions []Action, since, until time.Time, limit int) ([]*Record, error)
}

// LockRequester delivers a lock instruction for a username. Delivery is best effort.
type LockRequester interface {
	RequestLock(context context.Context, username string) error
}
