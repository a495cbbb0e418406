// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ids generates the identifiers used across the auth schema.

  - [NewUUIDv7]: time-ordered primary keys for accounts and sessions.
  - [NewTokenID]: random jti values for refresh tokens.
  - [NewULID]: lexicographically sortable keys for the login audit trail.
*/
package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewUUIDv7 returns a time-ordered UUID string. It panics only if the system
// random source fails.
func NewUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("ids: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// NewTokenID returns a random (v4) UUID for use as a jti.
func NewTokenID() string {
	return uuid.NewString()
}

// NewULID returns a monotonic ULID for t. Identifiers created within the same
// millisecond still sort in creation order.
func NewULID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// IsUUID reports whether s parses as a UUID of any version.
func IsUUID(s string) bool {
	return uuid.Validate(s) == nil
}
