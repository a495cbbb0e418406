// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"strings"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
)

// # Role Authorities

// RoleAuthority renders a role name as an authority string, e.g. ADMIN -> ROLE_ADMIN.
func RoleAuthority(role string) string {
	return constants.RolePrefix + role
}

// IsRoleAuthority reports whether authority was produced by [RoleAuthority].
func IsRoleAuthority(authority string) bool {
	return strings.HasPrefix(authority, constants.RolePrefix)
}
