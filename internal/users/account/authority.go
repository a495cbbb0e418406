// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"slices"

	"github.com/taibuivan/yomira-auth/internal/platform/sec"
	"github.com/taibuivan/yomira-auth/pkg/slice"
)

// # Principal

// Principal is the authenticated view of an account. It is built per request
// and never persisted.
type Principal struct {
	AccountID   string   `json:"account_id"`
	Username    string   `json:"username"`
	Status      Status   `json:"status"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	Authorities []string `json:"authorities"`
}

// Identity converts the principal into the claim set signed into access tokens.
func (p *Principal) Identity() sec.Identity {
	return sec.Identity{
		AccountID:   p.AccountID,
		Username:    p.Username,
		Roles:       p.Roles,
		Authorities: p.Authorities,
	}
}

// # RBAC Flattening

// RoleNames returns the plain, sorted role names of the account, deleted roles included.
func RoleNames(account *Account) []string {
	names := slice.Unique(slice.Map(account.Roles, func(role Role) string { return role.Name }))
	slices.Sort(names)
	return names
}

// PermissionNames returns the sorted, distinct permissions granted by non-deleted roles.
func PermissionNames(account *Account) []string {
	var names []string
	for _, role := range slice.Filter(account.Roles, func(role Role) bool { return !role.Deleted }) {
		for _, permission := range role.Permissions {
			names = append(names, permission.Name)
		}
	}

	names = slice.Unique(names)
	slices.Sort(names)
	return names
}

/*
ResolveAuthorities flattens the role graph into the authority strings carried
by access tokens.

Every role yields ROLE_<NAME>; every non-deleted role adds its permissions.
Role authorities come first, then permissions, each group sorted and free of
duplicates.
*/
func ResolveAuthorities(account *Account) []string {
	roles := RoleNames(account)
	permissions := PermissionNames(account)

	authorities := make([]string, 0, len(roles)+len(permissions))
	authorities = append(authorities, slice.Map(roles, sec.RoleAuthority)...)
	authorities = append(authorities, permissions...)

	return slice.Unique(authorities)
}

// PrincipalOf resolves the principal of a hydrated account.
func PrincipalOf(account *Account) *Principal {
	return &Principal{
		AccountID:   account.ID,
		Username:    account.Username,
		Status:      account.Status,
		Roles:       RoleNames(account),
		Permissions: PermissionNames(account),
		Authorities: ResolveAuthorities(account),
	}
}

// # Cached Projection

// Projection is the cache-friendly shape of an account: the principal plus the
// password hash the authenticator needs.
type Projection struct {
	Principal
	PasswordHash string `json:"password_hash"`
}

// ProjectionOf builds the projection stored in the user cache.
func ProjectionOf(account *Account) *Projection {
	return &Projection{
		Principal:    *PrincipalOf(account),
		PasswordHash: account.PasswordHash,
	}
}
