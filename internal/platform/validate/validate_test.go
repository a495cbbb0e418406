// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/validate"
)

// details runs rule against a fresh validator and returns the reported fields.
func details(t *testing.T, rule func(*validate.Validator)) []apperr.FieldError {
	t.Helper()
	v := &validate.Validator{}
	rule(v)

	err := v.Err()
	if err == nil {
		return nil
	}
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeValidation, appError.Code)
	return appError.Details
}

/*
TestValidator_Rules runs each rule against accepted and rejected inputs.
*/
func TestValidator_Rules(t *testing.T) {
	tests := []struct {
		name  string
		rule  func(*validate.Validator)
		valid bool
	}{
		{"required", func(v *validate.Validator) { v.Required("username", "alice") }, true},
		{"required blank", func(v *validate.Validator) { v.Required("username", "   ") }, false},

		{"max len counts runes", func(v *validate.Validator) { v.MaxLen("name", "éééé", 4) }, true},
		{"max len exceeded", func(v *validate.Validator) { v.MaxLen("name", "abcde", 4) }, false},
		{"min len", func(v *validate.Validator) { v.MinLen("password", "short", 8) }, false},

		{"password at limit", func(v *validate.Validator) { v.Password("password", strings.Repeat("a", 72)) }, true},
		{"password multibyte over limit", func(v *validate.Validator) { v.Password("password", strings.Repeat("é", 37)) }, false},

		{"username plain", func(v *validate.Validator) { v.Username("username", "alice") }, true},
		{"username email", func(v *validate.Validator) { v.Username("username", "alice@example.com") }, true},
		{"username dotted", func(v *validate.Validator) { v.Username("username", "a.l-i_ce") }, true},
		{"username too short", func(v *validate.Validator) { v.Username("username", "al") }, false},
		{"username space", func(v *validate.Validator) { v.Username("username", "al ice") }, false},

		{"authority word", func(v *validate.Validator) { v.AuthorityName("name", "ADMIN") }, true},
		{"authority snake", func(v *validate.Validator) { v.AuthorityName("name", "ACCOUNT_LOCK") }, true},
		{"authority digits", func(v *validate.Validator) { v.AuthorityName("name", "TIER2_SUPPORT") }, true},
		{"authority lowercase", func(v *validate.Validator) { v.AuthorityName("name", "admin") }, false},
		{"authority double underscore", func(v *validate.Validator) { v.AuthorityName("name", "ACCOUNT__LOCK") }, false},
		{"authority trailing underscore", func(v *validate.Validator) { v.AuthorityName("name", "ADMIN_") }, false},
		{"authority reserved prefix", func(v *validate.Validator) { v.AuthorityName("name", "ROLE_ADMIN") }, false},
		{"authority leading digit", func(v *validate.Validator) { v.AuthorityName("name", "2FA") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := details(t, tt.rule)
			if tt.valid {
				assert.Empty(t, fields)
			} else {
				assert.Len(t, fields, 1)
			}
		})
	}
}

/*
TestValidator_FirstFailurePerField verifies that a field reports only its first broken rule
while other fields still accumulate.
*/
func TestValidator_FirstFailurePerField(t *testing.T) {
	fields := details(t, func(v *validate.Validator) {
		v.Required("username", "").
			MinLen("username", "", 3).
			Username("username", "").
			AuthorityName("role", "admin")
	})

	require.Len(t, fields, 2)
	assert.Equal(t, "username", fields[0].Field)
	assert.Equal(t, "This field is required", fields[0].Message)
	assert.Equal(t, "role", fields[1].Field)
}

func TestValidator_PassingChain(t *testing.T) {
	v := &validate.Validator{}
	err := v.Required("username", "tai").
		MinLen("username", "tai", 3).
		MaxLen("username", "tai", 10).
		Username("username", "tai").
		Err()

	assert.NoError(t, err)
}
