// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants holds the fixed values shared across the auth service:
server deadlines, limiter sizing, token vocabulary, header and payload field
names, and the Redis key layout. Anything an operator may tune lives in
config instead.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "yomira-auth"
	AppVersion = "0.3.0"
)

// # Server Timing

// Deadlines for the listening http.Server and the request chain.
const (
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute

	// GlobalRequestTimeout cancels the handler context, including store calls.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout bounds the drain after SIGTERM.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

// Per client IP token bucket. Login carries its own tighter bucket from config.
const (
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	// Idle buckets older than RateLimitClientTTL are swept every RateLimitCleanupInterval.
	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is stamped into iss and required on verification.
	AuthIssuer = "yomira-auth"

	// MinSecretLength is the minimum HS256 key size in bytes.
	MinSecretLength = 32

	// TokenTypeBearer is the OAuth-style token_type returned to clients.
	TokenTypeBearer = "Bearer"

	// RolePrefix is prepended to role names when they are expressed as authorities.
	RolePrefix = "ROLE_"

	// RoleAdmin guards the administration endpoints.
	RoleAdmin = "ADMIN"
)

// # Lockout Defaults

const (
	// DefaultLockoutThreshold is the number of consecutive credential failures that locks an account.
	DefaultLockoutThreshold = 5

	// DefaultLockoutWindow is the rolling window over which failures are counted.
	DefaultLockoutWindow = 15 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldData      = "data"
	FieldMeta      = "meta"
	FieldError     = "error"
	FieldCode      = "code"
	FieldDetails   = "details"
	FieldTimestamp = "timestamp"
	FieldMessage   = "message"
	FieldStatus    = "status"
	FieldApp       = "app"
	FieldVersion   = "version"
	FieldChecks    = "checks"

	// Request payload fields reported in validation errors
	FieldUsername     = "username"
	FieldPassword     = "password"
	FieldRefreshToken = "refresh_token"
	FieldName         = "name"
)

// # Database Schemas

const (
	SchemaAuth = "auth"
)

// # Redis Keys (Cache Taxonomy)

const (
	// RedisPrefixUser keys the cached account projection by username.
	RedisPrefixUser = "auth:user:"

	// RedisChannelAccountLock carries lock instructions from the attempt tracker.
	RedisChannelAccountLock = "auth:events:account-lock"
)
