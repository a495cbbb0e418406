// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads what handlers need from an incoming request: a
bounded JSON body, router path segments and the caller established by the
Authenticate middleware.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-auth/internal/platform/sec"
	"github.com/taibuivan/yomira-auth/internal/platform/validate"
	"github.com/taibuivan/yomira-auth/pkg/convert"
)

// maxBodyBytes caps request bodies; auth payloads are a few hundred bytes.
const maxBodyBytes = 64 << 10

/*
Decode reads exactly one JSON document of type T from the body.

Unknown fields, trailing documents and bodies over the size cap are all
rejected with [validate.ErrInvalidJSON].
*/
func Decode[T any](request *http.Request) (T, error) {
	var target T

	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&target); err != nil {
		return target, validate.ErrInvalidJSON
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return target, validate.ErrInvalidJSON
	}
	return target, nil
}

// Param returns a named path segment.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// PathID parses a positive identity id from a path segment. ok is false for
// anything else, which handlers answer as a missing resource.
func PathID(request *http.Request, name string) (id int64, ok bool) {
	id = convert.ToInt64(Param(request, name))
	return id, id > 0
}

// RequiredClaims returns the verified access-token claims, or a 401 on
// anonymous requests.
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

// RequiredAccountID returns the uid claim of the caller. Tokens issued
// without one are treated as unauthenticated.
func RequiredAccountID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	if claims.AccountID == "" {
		return "", apperr.Unauthorized("Token does not identify an account")
	}
	return claims.AccountID, nil
}
