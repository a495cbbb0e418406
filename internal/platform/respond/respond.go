// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package respond writes the JSON envelopes of the auth API.

Successful bodies are {"data": ...}, listings add a "meta" block, and every
failure is an [ErrorEnvelope] rendered from an [apperr.AppError]. Error
responses also carry the protocol headers their status implies: a Bearer
challenge on 401 and Retry-After when the error asks for a back-off.
*/
package respond

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

// SuccessEnvelope wraps a single resource.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope wraps one page of a listing.
type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the body of every failed request. Timestamp is RFC 3339 UTC.
type ErrorEnvelope struct {
	Error     string              `json:"error"`
	Code      string              `json:"code"`
	Timestamp string              `json:"timestamp"`
	Details   []apperr.FieldError `json:"details,omitempty"`
}

// bearerChallenge is sent with every 401 (RFC 6750 section 3).
var bearerChallenge = fmt.Sprintf("%s realm=%q", constants.TokenTypeBearer, constants.AppName)

// JSON writes payload with the given status.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// Paginated writes one page plus its [pagination.Meta].
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
Error renders err as an [ErrorEnvelope].

Errors outside the [apperr] model and every 5xx are logged with the
request-scoped logger; the client only ever sees the generic message.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	context := request.Context()
	appError := apperr.Render(err)

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(context).ErrorContext(context, "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(context)),
			slog.Any("cause", appError.Cause),
		)
	}

	header := writer.Header()
	if appError.HTTPStatus == http.StatusUnauthorized {
		header.Set("WWW-Authenticate", bearerChallenge)
	}
	if appError.RetryAfter > 0 {
		header.Set(constants.HeaderRetryAfter, strconv.Itoa(appError.RetryAfter))
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:     appError.Message,
		Code:      appError.Code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Details:   appError.Details,
	})
}
