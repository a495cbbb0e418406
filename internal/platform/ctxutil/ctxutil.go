// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries per-request values through [context.Context].

The middleware chain stores four values: the correlation ID, a request-scoped
logger, the caller's network fingerprint and, on authenticated routes, the
verified access-token claims. Keys are private to this package so nothing else
can shadow them.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yomira-auth/internal/platform/sec"
)

// SystemActor names the caller of operations that no authenticated user
// triggered, such as a lock requested by the attempt tracker.
const SystemActor = "system"

// key is typed by the value it stores, so a lookup can never return the
// wrong type for a given slot.
type key[T any] struct{ name string }

var (
	requestIDKey = key[string]{"request_id"}
	loggerKey    = key[*slog.Logger]{"logger"}
	clientKey    = key[ClientInfo]{"client"}
	userKey      = key[*sec.AuthClaims]{"user"}
)

func with[T any](ctx context.Context, k key[T], value T) context.Context {
	return context.WithValue(ctx, k, value)
}

func lookup[T any](ctx context.Context, k key[T]) (T, bool) {
	value, ok := ctx.Value(k).(T)
	return value, ok
}

// # Request Tracing

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return with(ctx, requestIDKey, id)
}

// GetRequestID returns the correlation value, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := lookup(ctx, requestIDKey)
	return id
}

// # Structured Logging

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return with(ctx, loggerKey, logger)
}

// GetLogger returns the request-scoped logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := lookup(ctx, loggerKey); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Client Fingerprint

// ClientInfo is the network identity of the caller, recorded on sessions and
// in the login audit trail.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// WithClient attaches the caller's [ClientInfo].
func WithClient(ctx context.Context, client ClientInfo) context.Context {
	return with(ctx, clientKey, client)
}

// GetClient returns the caller's [ClientInfo], or the zero value.
func GetClient(ctx context.Context) ClientInfo {
	client, _ := lookup(ctx, clientKey)
	return client
}

// # Identity

// WithAuthUser attaches verified access-token claims.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return with(ctx, userKey, user)
}

// GetAuthUser returns the verified claims, or nil on anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := lookup(ctx, userKey)
	return claims
}

// Actor names whoever is acting in ctx: the authenticated username, or
// [SystemActor] when the operation was not triggered by a user.
func Actor(ctx context.Context) string {
	if claims := GetAuthUser(ctx); claims != nil && claims.Username() != "" {
		return claims.Username()
	}
	return SystemActor
}
