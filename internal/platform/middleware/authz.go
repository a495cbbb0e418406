// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-auth/internal/platform/respond"
	"github.com/taibuivan/yomira-auth/internal/platform/sec"
)

// TokenVerifier accepts ACCESS tokens only. [sec.TokenService.VerifyToken]
// rejects refresh tokens with [sec.ErrWrongTokenType].
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

var (
	errMalformedAuthorization = apperr.Unauthorized("Invalid authorization format")
	errRejectedBearer         = apperr.Unauthorized("Invalid or expired token")
	errAnonymous              = apperr.Unauthorized("Authentication required")
	errInsufficient           = apperr.Forbidden("Insufficient permissions")
)

/*
Authenticate resolves the caller from "Authorization: Bearer <access token>".

Requests without the header continue anonymously; the route guards decide
whether that is acceptable. A header that is present but malformed, or a
token that fails verification, ends the request with 401. On success the
claims and a username-tagged logger are placed in the context.
*/
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get(constants.HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			raw, ok := BearerToken(header)
			if !ok {
				respond.Error(writer, request, errMalformedAuthorization)
				return
			}

			claims, err := verifier.VerifyToken(raw)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "bearer_rejected", slog.Any("error", err))
				respond.Error(writer, request, errRejectedBearer)
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("username", claims.Username())))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// BearerToken returns the credential of a "Bearer <token>" header value. The
// scheme is case-insensitive and the token must be a single word.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.TokenTypeBearer) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// RequireAuth admits any authenticated caller. Register it after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return guard(func(*sec.AuthClaims) bool { return true })(next)
}

// RequireRole admits callers whose access token lists role. It implies [RequireAuth].
func RequireRole(role string) func(http.Handler) http.Handler {
	return guard(func(claims *sec.AuthClaims) bool { return claims.HasRole(role) })
}

// RequireAuthority admits callers holding authority, either a ROLE_ prefixed
// role or a permission name.
func RequireAuthority(authority string) func(http.Handler) http.Handler {
	return guard(func(claims *sec.AuthClaims) bool { return claims.HasAuthority(authority) })
}

// guard answers 401 to anonymous callers and 403 to those admit rejects.
func guard(admit func(*sec.AuthClaims) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			switch {
			case claims == nil:
				respond.Error(writer, request, errAnonymous)
			case !admit(claims):
				respond.Error(writer, request, errInsufficient)
			default:
				next.ServeHTTP(writer, request)
			}
		})
	}
}
