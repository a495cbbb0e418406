// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, JWT signing)
// from the domain logic. Domain services depend on small interfaces and receive
// a [TokenService] and a [BcryptHasher] from the composition root.
//
// # Token model
//
// Every token is an HS256 JWT carrying a "typ" claim of ACCESS or REFRESH. A
// token is only accepted by the flow that expects its type: access tokens
// authorize API calls, refresh tokens are traded for new pairs.
package sec

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taibuivan/yomira-auth/internal/platform/constants"
)

// TokenType discriminates access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "ACCESS"
	TokenTypeRefresh TokenType = "REFRESH"
)

var (
	// ErrInvalidToken covers every reason a token cannot be trusted: bad
	// signature, malformed payload, expiry, wrong issuer or unknown type.
	ErrInvalidToken = errors.New("sec: invalid token")

	// ErrWrongTokenType is returned by [TokenService.ParseAs] when a valid
	// token of the other kind is presented.
	ErrWrongTokenType = errors.New("sec: wrong token type")

	// ErrWeakSecret is returned when the signing key is shorter than
	// [constants.MinSecretLength].
	ErrWeakSecret = errors.New("sec: signing secret too short")
)

// AuthClaims represents the payload embedded inside a JWT.
//
// Access tokens carry the account id, the plain role names and the flattened
// authority list so [middleware.Authenticate] can rebuild the caller without a
// database round trip. Refresh tokens carry only the registered claims and the
// type; their jti identifies the persisted session row.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	Type        TokenType `json:"typ"`
	AccountID   string    `json:"uid,omitempty"`
	Roles       []string  `json:"rol,omitempty"`
	Authorities []string  `json:"aut,omitempty"`
}

// Username returns the subject, which is always the account's username.
func (c *AuthClaims) Username() string { return c.Subject }

// TokenID returns the jti claim.
func (c *AuthClaims) TokenID() string { return c.ID }

// HasRole reports whether the plain role name is present in the claims.
func (c *AuthClaims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAuthority reports whether the authority string (ROLE_X or a permission) is present.
func (c *AuthClaims) HasAuthority(authority string) bool {
	return slices.Contains(c.Authorities, authority)
}

// Identity is what gets embedded into an access token.
type Identity struct {
	AccountID   string
	Username    string
	Roles       []string
	Authorities []string
}

// # Token Service

// TokenService signs and verifies HS256 tokens with a shared secret.
//
// It is safe for concurrent use; it holds no mutable state after construction.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Option customises a [TokenService].
type Option func(*TokenService)

// WithClock overrides the time source used for iat/exp and for validation.
func WithClock(now func() time.Time) Option {
	return func(service *TokenService) {
		service.now = now
	}
}

// WithIssuer overrides the default [constants.AuthIssuer].
func WithIssuer(issuer string) Option {
	return func(service *TokenService) {
		service.issuer = issuer
	}
}

// NewTokenService creates a new TokenService from the raw HMAC secret.
func NewTokenService(secret []byte, opts ...Option) (*TokenService, error) {
	if len(secret) < constants.MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrWeakSecret, constants.MinSecretLength, len(secret))
	}

	service := &TokenService{
		secret: slices.Clone(secret),
		issuer: constants.AuthIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// IssueAccessToken signs an ACCESS token for the identity, valid for ttl.
func (service *TokenService) IssueAccessToken(identity Identity, ttl time.Duration) (string, error) {
	claims := service.baseClaims(identity.Username, "", ttl)
	claims.Type = TokenTypeAccess
	claims.AccountID = identity.AccountID
	claims.Roles = slices.Clone(identity.Roles)
	claims.Authorities = slices.Clone(identity.Authorities)

	return service.sign(claims)
}

// IssueRefreshToken signs a REFRESH token for subject whose jti is tokenID.
func (service *TokenService) IssueRefreshToken(subject, tokenID string, ttl time.Duration) (string, error) {
	if tokenID == "" {
		return "", fmt.Errorf("sec: refresh token requires a token id")
	}

	claims := service.baseClaims(subject, tokenID, ttl)
	claims.Type = TokenTypeRefresh

	return service.sign(claims)
}

// Parse verifies the signature, issuer and expiry of raw and returns its claims.
//
// Any failure is reported as [ErrInvalidToken]; claims are never returned
// alongside an error.
func (service *TokenService) Parse(raw string) (*AuthClaims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(raw, &AuthClaims{}, service.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	switch claims.Type {
	case TokenTypeAccess, TokenTypeRefresh:
		return claims, nil
	default:
		return nil, fmt.Errorf("%w: unknown token type %q", ErrInvalidToken, claims.Type)
	}
}

// ParseAs parses raw and additionally requires its type to be want.
func (service *TokenService) ParseAs(raw string, want TokenType) (*AuthClaims, error) {
	claims, err := service.Parse(raw)
	if err != nil {
		return nil, err
	}

	if claims.Type != want {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrWrongTokenType, want, claims.Type)
	}

	return claims, nil
}

// IsValid reports whether raw parses cleanly at the current instant.
func (service *TokenService) IsValid(raw string) bool {
	_, err := service.Parse(raw)
	return err == nil
}

// VerifyToken accepts only ACCESS tokens. It satisfies the middleware's
// verifier contract.
func (service *TokenService) VerifyToken(raw string) (*AuthClaims, error) {
	return service.ParseAs(raw, TokenTypeAccess)
}

func (service *TokenService) baseClaims(subject, tokenID string, ttl time.Duration) *AuthClaims {
	issuedAt := service.now()

	return &AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   subject,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
}

func (service *TokenService) sign(claims *AuthClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

func (service *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
	}
	return service.secret, nil
}
