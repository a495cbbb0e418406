// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/respond"
)

const readinessTimeout = 2 * time.Second

// HealthDependencies are the /ready probes. A nil probe is skipped.
type HealthDependencies struct {
	CheckDatabase func(context.Context) error
	CheckCache    func(context.Context) error
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type probe struct {
	name  string
	check func(context.Context) error
}

// NewHealthHandlers returns the /health and /ready handlers.
//
// /health answers 200 while the process runs. /ready runs every probe in
// parallel under one deadline and answers 503 "degraded" if any fails.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	var probes []probe
	for _, candidate := range []probe{
		{"postgres", deps.CheckDatabase},
		{"redis", deps.CheckCache},
	} {
		if candidate.check != nil {
			probes = append(probes, candidate)
		}
	}

	liveness = func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, map[string]string{
			constants.FieldStatus:  "ok",
			constants.FieldApp:     constants.AppName,
			constants.FieldVersion: constants.AppVersion,
		})
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
		defer cancel()

		results := make([]checkResult, len(probes))
		var group errgroup.Group
		for i, p := range probes {
			group.Go(func() error {
				results[i] = checkResult{Name: p.name, IsOK: true}
				if err := p.check(ctx); err != nil {
					results[i] = checkResult{Name: p.name, Error: err.Error()}
					logger.ErrorContext(ctx, "readiness_check_failed", slog.String("dependency", p.name), slog.Any("error", err))
				}
				return nil
			})
		}
		_ = group.Wait()

		status, code := "ready", http.StatusOK
		for _, result := range results {
			if !result.IsOK {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}

		respond.JSON(writer, code, respond.SuccessEnvelope{Data: map[string]any{
			constants.FieldStatus: status,
			constants.FieldChecks: results,
		}})
	}

	return liveness, readiness
}
