// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate collects field-level failures and reports them as one
VALIDATION_ERROR.

Handlers check request shape with it and services check naming rules.
Storage never validates.

	validator := &validate.Validator{}
	validator.Required("username", input.Username).Username("username", input.Username)
	if err := validator.Err(); err != nil {
		return err
	}

Only the first failure per field is kept, so a blank value reports
"required" rather than every rule it also breaks.
*/
package validate

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/sec"
)

// MaxPasswordBytes is the longest secret bcrypt will hash.
const MaxPasswordBytes = 72

var (
	usernamePattern  = regexp.MustCompile(`^[A-Za-z0-9._@-]{3,64}$`)
	authorityPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*(?:_[A-Z0-9]+)*$`)

	// ErrInvalidJSON rejects bodies that do not decode into the request type.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator accumulates failures. Use one per request; it is not safe for
// concurrent use.
type Validator struct {
	errs []apperr.FieldError
}

// Required rejects blank values.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) == "", "This field is required")
}

// MaxLen counts characters, not bytes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) < min, fmt.Sprintf("Minimum %d characters", min))
}

// Password enforces the bcrypt input limit, which is measured in bytes.
func (v *Validator) Password(field, value string) *Validator {
	return v.check(field, len(value) > MaxPasswordBytes, fmt.Sprintf("Maximum %d bytes", MaxPasswordBytes))
}

// Username accepts 3 to 64 letters, digits, '.', '_', '-' or '@'.
func (v *Validator) Username(field, value string) *Validator {
	return v.check(field, !usernamePattern.MatchString(value),
		"Must be 3-64 characters of letters, digits, '.', '_', '-' or '@'")
}

// AuthorityName accepts UPPER_SNAKE role and permission names such as
// ACCOUNT_LOCK. The ROLE_ prefix is reserved for derived authorities.
func (v *Validator) AuthorityName(field, value string) *Validator {
	invalid := !authorityPattern.MatchString(value) || sec.IsRoleAuthority(value)
	return v.check(field, invalid, "Must be UPPER_SNAKE_CASE and must not start with "+constants.RolePrefix)
}

// Err returns the collected failures, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

func (v *Validator) check(field string, failed bool, message string) *Validator {
	if !failed || v.failed(field) {
		return v
	}
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	return v
}

func (v *Validator) failed(field string) bool {
	return slices.ContainsFunc(v.errs, func(fe apperr.FieldError) bool { return fe.Field == field })
}
