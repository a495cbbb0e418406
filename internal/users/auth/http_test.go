// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/platform/middleware"
	"github.com/taibuivan/yomira-auth/internal/platform/respond"
	"github.com/taibuivan/yomira-auth/internal/users/account"
	"github.com/taibuivan/yomira-auth/internal/users/auth"
)

func newServer(t *testing.T, e *env) http.Handler {
	t.Helper()
	return middleware.Authenticate(e.tokens)(auth.NewHandler(e.service, nil).Routes())
}

func call(handler http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodePair(t *testing.T, recorder *httptest.ResponseRecorder) auth.TokenPair {
	t.Helper()
	var envelope struct {
		Data auth.TokenPair `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope.Data
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	return body.Code
}

/*
TestHandler_Flow drives login, refresh, me and logout over HTTP.
*/
func TestHandler_Flow(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "alice", "s3cret", account.StatusActive, "USER")
	server := newServer(t, e)

	// 1. Login
	recorder := call(server, http.MethodPost, "/login", `{"username":"alice","password":"s3cret"}`, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	pair := decodePair(t, recorder)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)

	// 2. Refresh
	recorder = call(server, http.MethodPost, "/token/refresh", `{"refresh_token":"`+pair.RefreshToken+`"}`, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	rotated := decodePair(t, recorder)

	// 3. Me
	recorder = call(server, http.MethodGet, "/me", "", rotated.AccessToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"username":"alice"`)

	// 4. Logout
	recorder = call(server, http.MethodPost, "/logout", `{"refresh_token":"`+rotated.RefreshToken+`"}`, rotated.AccessToken)
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	// 5. The spent token is refused
	recorder = call(server, http.MethodPost, "/token/refresh", `{"refresh_token":"`+rotated.RefreshToken+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, recorder))
}

func TestHandler_Errors(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "alice", "s3cret", account.StatusActive, "USER")
	e.addAccount(t, "bob", "s3cret", account.StatusInactive, "USER")
	e.addAccount(t, "carol", "s3cret", account.StatusLocked, "USER")
	server := newServer(t, e)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"bad credentials", http.MethodPost, "/login", `{"username":"alice","password":"nope"}`, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"disabled", http.MethodPost, "/login", `{"username":"bob","password":"s3cret"}`, http.StatusForbidden, "ACCOUNT_DISABLED"},
		{"locked", http.MethodPost, "/login", `{"username":"carol","password":"s3cret"}`, http.StatusLocked, "ACCOUNT_LOCKED"},
		{"missing password", http.MethodPost, "/login", `{"username":"alice"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing refresh token", http.MethodPost, "/token/refresh", `{}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"garbage refresh token", http.MethodPost, "/token/refresh", `{"refresh_token":"x"}`, http.StatusUnauthorized, "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := call(server, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, recorder))
		})
	}
}

func TestHandler_ProtectedRoutesNeedBearer(t *testing.T) {
	e := newEnv(t)
	server := newServer(t, e)

	assert.Equal(t, http.StatusUnauthorized, call(server, http.MethodGet, "/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(server, http.MethodPost, "/logout", `{"refresh_token":"x"}`, "").Code)
}

func TestHandler_LoginGuard(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "alice", "s3cret", account.StatusActive, "USER")

	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusTooManyRequests)
		})
	}
	server := middleware.Authenticate(e.tokens)(auth.NewHandler(e.service, blocked).Routes())

	recorder := call(server, http.MethodPost, "/login", `{"username":"alice","password":"s3cret"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)

	// The guard is scoped to login only
	recorder = call(server, http.MethodPost, "/token/refresh", `{"refresh_token":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
