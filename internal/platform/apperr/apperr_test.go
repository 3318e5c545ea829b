// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/warden/internal/platform/apperr"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"bad input", apperr.BadInput("Invalid login credentials"), apperr.CodeBadInput, http.StatusBadRequest},
		{"unauthenticated", apperr.Unauthenticated("Authentication required"), apperr.CodeUnauthenticated, http.StatusUnauthorized},
		{"not found", apperr.NotFound("Route"), apperr.CodeNotFound, http.StatusNotFound},
		{"conflict", apperr.Conflict("Username is already taken"), apperr.CodeConflict, http.StatusConflict},
		{"validation", apperr.ValidationError("Validation failed"), apperr.CodeValidation, http.StatusBadRequest},
		{"rate limited", apperr.RateLimited(60), apperr.CodeRateLimited, http.StatusTooManyRequests},
		{"internal", apperr.Internal(errors.New("boom")), apperr.CodeInternal, http.StatusInternalServerError},
		{"unavailable", apperr.ServiceUnavailable("Database unavailable"), apperr.CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation users.account does not exist")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "relation")
	assert.ErrorIs(t, err, cause)
}

func TestHelpers(t *testing.T) {
	wrapped := fmt.Errorf("auth_service_login_failed: %w", apperr.BadInput("Invalid login credentials"))

	assert.True(t, apperr.IsAppError(wrapped))
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeBadInput))
	assert.False(t, apperr.HasCode(wrapped, apperr.CodeConflict))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "Invalid login credentials", ae.Message)

	assert.Nil(t, apperr.As(errors.New("plain")))
	assert.Equal(t, 60, apperr.RateLimited(60).RetryAfter)
}
