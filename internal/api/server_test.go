// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/warden/internal/api"
	"github.com/taibuivan/warden/internal/platform/config"
	"github.com/taibuivan/warden/internal/platform/metrics"
	"github.com/taibuivan/warden/internal/platform/sec"
	"github.com/taibuivan/warden/internal/users/account"
	"github.com/taibuivan/warden/internal/users/auth"
	"github.com/taibuivan/warden/internal/users/auth/authtest"
	"github.com/taibuivan/warden/internal/users/identity"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

type harness struct {
	handler http.Handler
	store   *authtest.Store
}

func newHarness(t *testing.T, deps api.HealthDependencies) *harness {
	t.Helper()

	cfg := &config.Config{
		ServerPort:  "0",
		Environment: "test",
		TokenSecret: strings.Repeat("s", config.MinTokenSecretLength),
		TokenIssuer: "warden",
		TokenTTL:    7 * 24 * time.Hour,
		HashCost:    bcrypt.MinCost,
		HashWorkers: 2,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	hasher, err := sec.NewHasher(cfg)
	require.NoError(t, err)
	tokens, err := sec.NewTokenService(cfg)
	require.NoError(t, err)

	store := authtest.NewStore()
	authService := auth.NewService(store, hasher, tokens, auth.NoopLoginThrottle{})
	accountService := account.NewService(authService)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	liveness, readiness := api.NewHealthHandlers(deps, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, cfg, log, identity.NewResolver(tokens, store, log), api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
	})

	return &harness{handler: server.Handler(), store: store}
}

func (h *harness) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	h.handler.ServeHTTP(recorder, request)

	var decoded envelope
	if strings.HasPrefix(recorder.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder, decoded
}

/*
TestServer_EndToEnd drives the full router: signup, login, and the
authenticated account endpoint with valid, missing and forged tokens.
*/
func TestServer_EndToEnd(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{})

	recorder, body := h.do(t, http.MethodPost, "/api/v1/auth/register",
		`{"username":"alice","email":"Alice@Example.com","password":"Passw0rd1"}`, "")
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created identity.Account
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.NotContains(t, recorder.Body.String(), "$2a$")

	recorder, body = h.do(t, http.MethodPost, "/api/v1/auth/login",
		`{"identifier":"alice","password":"Passw0rd1"}`, "")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var login auth.LoginResult
	require.NoError(t, json.Unmarshal(body.Data, &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "Bearer", login.TokenType)
	assert.Equal(t, "7d", login.ExpiresIn)
	assert.Equal(t, "alice", login.Account.Username)

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		wrong, wrongBody := h.do(t, http.MethodPost, "/api/v1/auth/login",
			`{"identifier":"alice","password":"nope-nope"}`, "")
		unknown, unknownBody := h.do(t, http.MethodPost, "/api/v1/auth/login",
			`{"identifier":"mallory","password":"nope-nope"}`, "")

		assert.Equal(t, http.StatusBadRequest, wrong.Code)
		assert.Equal(t, http.StatusBadRequest, unknown.Code)
		assert.Equal(t, "BAD_INPUT", wrongBody.Code)
		assert.Equal(t, wrongBody, unknownBody)
	})

	t.Run("login by email alias", func(t *testing.T) {
		recorder, _ := h.do(t, http.MethodPost, "/api/v1/auth/login",
			`{"login":"ALICE@example.com","password":"Passw0rd1"}`, "")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		recorder, body := h.do(t, http.MethodPost, "/api/v1/auth/register",
			`{"username":"alice","email":"other@example.com","password":"Passw0rd1"}`, "")
		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Equal(t, "CONFLICT", body.Code)
	})

	t.Run("me with token", func(t *testing.T) {
		recorder, body := h.do(t, http.MethodGet, "/api/v1/account/me", "", login.Token)
		require.Equal(t, http.StatusOK, recorder.Code)

		var me identity.Account
		require.NoError(t, json.Unmarshal(body.Data, &me))
		assert.Equal(t, created.ID, me.ID)
		assert.Equal(t, "alice", me.Username)
	})

	t.Run("me without token", func(t *testing.T) {
		recorder, body := h.do(t, http.MethodGet, "/api/v1/account/me", "", "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "UNAUTHENTICATED", body.Code)
		assert.Equal(t, identity.MessageAuthRequired, body.Error)
	})

	t.Run("me with forged token", func(t *testing.T) {
		recorder, body := h.do(t, http.MethodGet, "/api/v1/account/me", "", login.Token+"x")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "UNAUTHENTICATED", body.Code)
	})

	t.Run("change password then log in with the new one", func(t *testing.T) {
		recorder, _ := h.do(t, http.MethodPost, "/api/v1/account/me/password",
			`{"current_password":"Passw0rd1","new_password":"N3wPassw0rd"}`, login.Token)
		require.Equal(t, http.StatusNoContent, recorder.Code, recorder.Body.String())

		recorder, _ = h.do(t, http.MethodPost, "/api/v1/auth/login",
			`{"identifier":"alice","password":"N3wPassw0rd"}`, "")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("deactivated account loses access with a live token", func(t *testing.T) {
		h.store.SetActive(created.ID, false)
		t.Cleanup(func() { h.store.SetActive(created.ID, true) })

		recorder, _ := h.do(t, http.MethodGet, "/api/v1/account/me", "", login.Token)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		recorder, body := h.do(t, http.MethodGet, "/api/v1/nope", "", "")
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "NOT_FOUND", body.Code)
	})
}

func TestServer_StoreOutageOnAuthenticatedRequest(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{})

	recorder, _ := h.do(t, http.MethodPost, "/api/v1/auth/register",
		`{"username":"bob","email":"bob@example.com","password":"Passw0rd1"}`, "")
	require.Equal(t, http.StatusCreated, recorder.Code)

	_, body := h.do(t, http.MethodPost, "/api/v1/auth/login",
		`{"identifier":"bob","password":"Passw0rd1"}`, "")
	var login auth.LoginResult
	require.NoError(t, json.Unmarshal(body.Data, &login))

	h.store.SetErr(errors.New("connection refused"))

	recorder, body = h.do(t, http.MethodGet, "/api/v1/account/me", "", login.Token)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.NotContains(t, recorder.Body.String(), "connection refused")
}

func TestServer_Infrastructure(t *testing.T) {
	t.Run("health and metrics", func(t *testing.T) {
		h := newHarness(t, api.HealthDependencies{})

		recorder, _ := h.do(t, http.MethodGet, "/health", "", "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		recorder, _ = h.do(t, http.MethodPost, "/api/v1/auth/login", `{"identifier":"","password":""}`, "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		recorder, _ = h.do(t, http.MethodGet, "/metrics", "", "")
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "warden_login_attempts_total")
	})

	t.Run("ready", func(t *testing.T) {
		h := newHarness(t, api.HealthDependencies{
			CheckDatabase: func(context.Context) error { return nil },
		})
		recorder, _ := h.do(t, http.MethodGet, "/ready", "", "")
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"ready"`)
	})

	t.Run("degraded", func(t *testing.T) {
		h := newHarness(t, api.HealthDependencies{
			CheckDatabase: func(context.Context) error { return nil },
			CheckCache:    func(context.Context) error { return errors.New("dial tcp: refused") },
		})
		recorder, body := h.do(t, http.MethodGet, "/ready", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Code)
		assert.Contains(t, recorder.Body.String(), `"field":"redis"`)
		assert.NotContains(t, recorder.Body.String(), `"field":"postgres"`)
		assert.NotContains(t, recorder.Body.String(), "refused")
	})
}
