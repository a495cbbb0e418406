// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account owns the credential-bearing identity of the auth service.

It holds the Account aggregate and its role graph, the RBAC flattening that
turns roles into token authorities, the Redis projection cache consulted on
every login, and the Postgres repository behind both.

# Architecture

  - Entities: Account, Role, Permission, Principal, Projection.
  - Contracts: Repository (Postgres), Cache (Redis).
  - Directory: read-through composition of the two, used by the authenticator.
*/
package account

import (
	"context"
	"net/http"
	"time"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
)

// # Account Status

// Status is the lifecycle state of an account, stored as a smallint.
type Status int16

const (
	StatusInactive Status = 0
	StatusActive   Status = 1
	StatusLocked   Status = -1
)

// String renders the status for logs and API payloads.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "ACTIVE"
	case StatusInactive:
		return "INACTIVE"
	case StatusLocked:
		return "LOCKED"
	default:
		return "UNKNOWN"
	}
}

// # Domain Errors

var (
	// ErrAccountDisabled is returned when the account exists but is INACTIVE.
	ErrAccountDisabled = apperr.New("ACCOUNT_DISABLED", "Account is disabled", http.StatusForbidden)

	// ErrAccountLocked is returned when the account has been locked.
	ErrAccountLocked = apperr.Locked("ACCOUNT_LOCKED", "Account is locked")

	// ErrAccountNotFound is returned when a token's subject no longer resolves
	// to an account. It renders as 401 because the caller's credential is void.
	ErrAccountNotFound = apperr.New("ACCOUNT_NOT_FOUND", "Account not found", http.StatusUnauthorized)
)

// # Domain Entities

// Permission is a named capability attached to roles.
type Permission struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Role groups permissions. Soft-deleted roles stay linked to accounts but
// contribute no authorities.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Deleted     bool         `json:"deleted"`
	Permissions []Permission `json:"permissions"`
}

// Account is the persisted identity together with its role graph.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Status       Status    `json:"status"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CheckUsable maps a non-ACTIVE status to its domain error.
func CheckUsable(status Status) error {
	switch status {
	case StatusActive:
		return nil
	case StatusLocked:
		return ErrAccountLocked
	default:
		return ErrAccountDisabled
	}
}

// # Repository Contracts

// Repository defines the persistence contract for accounts.
type Repository interface {
	/*
		FindByUsername loads the account with its roles and their permissions.

		Returns:
		  - *Account: Hydrated aggregate
		  - error: [ErrAccountNotFound] or storage failures
	*/
	FindByUsername(context context.Context, username string) (*Account, error)

	/*
		Save persists the mutable columns (password hash, status) and bumps updatedat.

		Returns:
		  - error: [ErrAccountNotFound] if the row vanished, or storage failures
	*/
	Save(context context.Context, account *Account) error

	/*
		Create inserts a new account and links it to the named, non-deleted roles.

		Returns:
		  - error: apperr.Conflict on a duplicate username, apperr.Unprocessable
		    if a role name is unknown, or storage failures
	*/
	Create(context context.Context, account *Account, roleNames []string) error
}

// Cache stores [Projection] values keyed by username.
type Cache interface {
	Get(context context.Context, username string) (*Projection, error)
	Put(context context.Context, projection *Projection) error
	Evict(context context.Context, username string) error
	EvictAll(context context.Context) error
}
