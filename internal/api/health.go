// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/warden/internal/platform/apperr"
	"github.com/taibuivan/warden/internal/platform/constants"
	"github.com/taibuivan/warden/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
// A nil checker is skipped.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func(context context.Context) error

	// CheckCache pings the Redis client backing the login throttle.
	CheckCache func(context context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// readiness handles GET /ready (Readiness probe).
// A failed dependency yields 503 SERVICE_UNAVAILABLE with one detail per failing check.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := []struct {
		name  string
		check func(context.Context) error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	results := make([]checkResult, 0, len(checks))
	isSystemReady := true

	for _, dependency := range checks {
		if dependency.check == nil {
			continue
		}

		result := checkResult{Name: dependency.name, IsOK: true}
		if err := dependency.check(request.Context()); err != nil {
			result.IsOK = false
			result.Error = "unreachable"
			isSystemReady = false
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", dependency.name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	if !isSystemReady {
		details := make([]apperr.FieldError, 0, len(results))
		for _, result := range results {
			if !result.IsOK {
				details = append(details, apperr.FieldError{Field: result.Name, Message: result.Error})
			}
		}
		notReady := apperr.ServiceUnavailable("Service is degraded")
		notReady.Details = details
		respond.Error(writer, request, notReady)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldStatus: "ready",
		constants.FieldChecks: results,
	})
}
