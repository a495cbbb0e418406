// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP decorators of the auth API.

The server installs them in this order: request tracing, access logging,
panic recovery, metrics, timeout, rate limiting, security headers, CORS and
bearer authentication. Route groups then add [RequireAuth] or [RequireRole].
*/
package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-auth/pkg/ids"
)

// requestIDPattern bounds what a client may send as X-Request-ID before it
// lands in logs.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID keeps a well-formed client X-Request-ID or mints a UUIDv7, then
// echoes it on the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if !requestIDPattern.MatchString(requestID) {
				requestID = ids.NewUUIDv7()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

// responseRecorder remembers what the handler wrote.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (recorder *responseRecorder) WriteHeader(code int) {
	if recorder.status == 0 {
		recorder.status = code
	}
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *responseRecorder) Write(body []byte) (int, error) {
	if recorder.status == 0 {
		recorder.status = http.StatusOK
	}
	written, err := recorder.ResponseWriter.Write(body)
	recorder.bytes += written
	return written, err
}

func (recorder *responseRecorder) statusCode() int {
	if recorder.status == 0 {
		return http.StatusOK
	}
	return recorder.status
}

/*
StructuredLogger writes one "http_request_finished" line per request.

Downstream handlers find a logger tagged with the request id, method, path
and client IP in the context, next to the caller's [ctxutil.ClientInfo] that
sessions and the login audit record. The level follows the status: 5xx is an
error, 4xx a warning.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()
			client := ctxutil.ClientInfo{IPAddress: RealIP(request), UserAgent: request.UserAgent()}

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", client.IPAddress),
			)

			ctx := ctxutil.WithClient(ctxutil.WithLogger(request.Context(), requestLogger), client)
			recorder := &responseRecorder{ResponseWriter: writer}
			next.ServeHTTP(recorder, request.WithContext(ctx))

			status := recorder.statusCode()
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.Int("status", status),
				slog.Int("bytes", recorder.bytes),
				slog.Int64("latency_ms", time.Since(started).Milliseconds()),
				slog.String("user_agent", client.UserAgent),
			}
			if routeContext := chi.RouteContext(ctx); routeContext != nil && routeContext.RoutePattern() != "" {
				attrs = append(attrs, slog.String("route", routeContext.RoutePattern()))
			}

			requestLogger.LogAttrs(ctx, level, "http_request_finished", attrs...)
		})
	}
}

// RealIP prefers X-Real-IP, then the first X-Forwarded-For hop, then the
// peer address.
func RealIP(request *http.Request) string {
	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
