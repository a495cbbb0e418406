// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-auth/internal/platform/middleware"
	"github.com/taibuivan/yomira-auth/pkg/ids"
)

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"client id kept", "req-01HZX.abc_9", true},
		{"missing", "", false},
		{"log injection", "abc\nlevel=ERROR", false},
		{"too long", strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/health", nil)
			request.Header.Set("X-Request-ID", tt.header)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
			if tt.keep {
				assert.Equal(t, tt.header, seen)
			} else {
				assert.True(t, ids.IsUUID(seen), seen)
			}
		})
	}
}

/*
TestStructuredLogger verifies the client fingerprint in the context and the finished line.
*/
func TestStructuredLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	var client ctxutil.ClientInfo
	handler := middleware.StructuredLogger(logger)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		client = ctxutil.GetClient(request.Context())
		writer.WriteHeader(http.StatusLocked)
		_, _ = writer.Write([]byte(`{"code":"ACCOUNT_LOCKED"}`))
	}))

	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	request.Header.Set("User-Agent", "curl/8.5")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	assert.Equal(t, ctxutil.ClientInfo{IPAddress: "203.0.113.9", UserAgent: "curl/8.5"}, client)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &line))
	assert.Equal(t, "http_request_finished", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.EqualValues(t, http.StatusLocked, line["status"])
	assert.EqualValues(t, len(`{"code":"ACCOUNT_LOCKED"}`), line["bytes"])
	assert.Equal(t, "203.0.113.9", line["ip"])
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:4711"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", " , 10.0.0.1")
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", middleware.RealIP(request))
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "boom")

	aborting := middleware.PanicRecovery(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		aborting.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestSecureHeaders(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.SecureHeaders()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))

	assert.Equal(t, "no-store", recorder.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", recorder.Header().Get("X-Frame-Options"))
}

type corsConfig struct {
	development bool
	origins     []string
}

func (c corsConfig) IsDevelopment() bool      { return c.development }
func (c corsConfig) AllowedOrigins() []string { return c.origins }

/*
TestCORS covers listed and unlisted origins, preflights and plain OPTIONS.
*/
func TestCORS(t *testing.T) {
	reached := false
	handler := middleware.CORS(corsConfig{origins: []string{"https://app.example"}})(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { reached = true }))

	send := func(method, origin string, preflight bool) *httptest.ResponseRecorder {
		reached = false
		request := httptest.NewRequest(method, "/api/v1/auth/login", nil)
		request.Header.Set("Origin", origin)
		if preflight {
			request.Header.Set("Access-Control-Request-Method", http.MethodPost)
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	// 1. Listed origin on a real request
	listed := send(http.MethodPost, "https://app.example", false)
	assert.True(t, reached)
	assert.Equal(t, "https://app.example", listed.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, listed.Header().Get("Access-Control-Expose-Headers"), "Retry-After")

	// 2. Unlisted origin passes through without grants
	unlisted := send(http.MethodPost, "https://evil.example", false)
	assert.True(t, reached)
	assert.Empty(t, unlisted.Header().Get("Access-Control-Allow-Origin"))

	// 3. Preflight is answered without reaching the handler
	preflight := send(http.MethodOptions, "https://app.example", true)
	assert.False(t, reached)
	assert.Equal(t, http.StatusNoContent, preflight.Code)
	assert.Contains(t, preflight.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	// 4. Development admits anything
	open := middleware.CORS(corsConfig{development: true})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	request.Header.Set("Origin", "http://localhost:5173")
	open.ServeHTTP(recorder, request)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
}
