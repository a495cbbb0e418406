// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/respond"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

/*
TestError verifies status, code and timestamp rendering for domain and unknown errors.
*/
func TestError(t *testing.T) {
	locked := apperr.Locked("ACCOUNT_LOCKED", "Account is locked")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app error", locked, http.StatusLocked, "ACCOUNT_LOCKED"},
		{"wrapped app error", fmt.Errorf("login: %w", locked), http.StatusLocked, "ACCOUNT_LOCKED"},
		{"plain error", errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var envelope respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, tt.wantCode, envelope.Code)

			_, err := time.Parse(time.RFC3339, envelope.Timestamp)
			assert.NoError(t, err)
		})
	}
}

func TestOK(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.OK(recorder, map[string]string{"username": "alice"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"username":"alice"}}`, recorder.Body.String())
}

/*
TestError_ProtocolHeaders verifies the Bearer challenge on 401 and Retry-After on back-off errors.
*/
func TestError_ProtocolHeaders(t *testing.T) {
	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)

	unauthorized := httptest.NewRecorder()
	respond.Error(unauthorized, request, apperr.Unauthorized("Authentication required"))
	assert.Equal(t, `Bearer realm="yomira-auth"`, unauthorized.Header().Get("WWW-Authenticate"))
	assert.Empty(t, unauthorized.Header().Get("Retry-After"))

	limited := httptest.NewRecorder()
	respond.Error(limited, request, apperr.RateLimited(7))
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "7", limited.Header().Get("Retry-After"))
	assert.Empty(t, limited.Header().Get("WWW-Authenticate"))
}

func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []string{"ADMIN"}, pagination.Params{Page: 1, Limit: 20}.Meta(1))

	assert.JSONEq(t,
		`{"data":["ADMIN"],"meta":{"page":1,"limit":20,"total":1,"total_pages":1,"has_next":false}}`,
		recorder.Body.String())
}
