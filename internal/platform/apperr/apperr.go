// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error model shared by the auth service layers.

Domain packages declare their failures as package-level [*AppError] sentinels
(the credential and token errors of the login flow, the RBAC conflicts) so
callers can branch with [errors.Is] while the HTTP layer renders the same
value directly. Anything that is not an [*AppError] is rendered as a 500.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Generic codes. Domain sentinels may use more specific ones.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnprocessable      = "UNPROCESSABLE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// AppError is a failure that knows how it should be rendered.
//
// Cause is logged server-side and never serialized.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`

	// RetryAfter, when positive, is sent as the Retry-After header in seconds.
	RetryAfter int `json:"-"`

	// origin is the sentinel this error was derived from by [AppError.Wrap].
	origin *AppError
}

// FieldError is one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches the sentinel a wrapped copy was derived from.
func (e *AppError) Is(target error) bool {
	sentinel, ok := target.(*AppError)
	return ok && e.origin != nil && e.origin == sentinel
}

// New declares an error with an explicit code and status.
func New(code, msg string, status int) *AppError {
	return &AppError{Code: code, Message: msg, HTTPStatus: status}
}

// Wrap returns a copy of e carrying cause. The copy still satisfies
// errors.Is(copy, e).
func (e *AppError) Wrap(cause error) *AppError {
	wrapped := *e
	wrapped.Cause = cause
	if wrapped.origin == nil {
		wrapped.origin = e
	}
	return &wrapped
}

// # Client Errors (4xx)

// NotFound reports a missing resource by name, e.g. "Role not found".
func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found", http.StatusNotFound)
}

func Unauthorized(msg string) *AppError {
	return New(CodeUnauthorized, msg, http.StatusUnauthorized)
}

func Forbidden(msg string) *AppError {
	return New(CodeForbidden, msg, http.StatusForbidden)
}

// Conflict reports a duplicate or a unique-constraint violation.
func Conflict(msg string) *AppError {
	return New(CodeConflict, msg, http.StatusConflict)
}

// ValidationError is a 400 carrying per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	err := New(CodeValidation, msg, http.StatusBadRequest)
	err.Details = details
	return err
}

// Unprocessable reports well-formed input the domain refuses, such as
// renaming the reserved ADMIN role.
func Unprocessable(msg string) *AppError {
	return New(CodeUnprocessable, msg, http.StatusUnprocessableEntity)
}

// Locked is a 423 for accounts that exist but refuse access.
func Locked(code, msg string) *AppError {
	return New(code, msg, http.StatusLocked)
}

// RateLimited is a 429 that tells the client how long to back off.
func RateLimited(retryAfterSeconds int) *AppError {
	if retryAfterSeconds < 1 {
		retryAfterSeconds = 1
	}
	err := New(CodeRateLimited, fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds), http.StatusTooManyRequests)
	err.RetryAfter = retryAfterSeconds
	return err
}

// # Server Errors (5xx)

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	err := New(CodeInternal, "An unexpected error occurred", http.StatusInternalServerError)
	err.Cause = cause
	return err
}

// ServiceUnavailable reports a dependency outage.
func ServiceUnavailable(msg string) *AppError {
	return New(CodeServiceUnavailable, msg, http.StatusServiceUnavailable)
}

// # Helpers

// As extracts the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var target *AppError
	if errors.As(err, &target) {
		return target
	}
	return nil
}

// Render resolves err to the [*AppError] the client will see. Errors outside
// the model become [Internal].
func Render(err error) *AppError {
	if appError := As(err); appError != nil {
		return appError
	}
	return Internal(err)
}
