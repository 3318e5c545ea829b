// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/warden/internal/platform/apperr"
	"github.com/taibuivan/warden/internal/users/identity"
)

/*
TestRequireAuthenticated verifies both branches of the authorization gate.
*/
func TestRequireAuthenticated(t *testing.T) {
	t.Run("anonymous is rejected", func(t *testing.T) {
		for _, result := range []identity.Result{identity.Anonymous(), {}, identity.Authenticated(nil)} {
			account, err := identity.RequireAuthenticated(result)
			require.Error(t, err)
			assert.Nil(t, account)
			assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))
		}
	})

	t.Run("authenticated returns the same account", func(t *testing.T) {
		alice := &identity.Account{ID: "acc-1", Username: "alice", Active: true}

		account, err := identity.RequireAuthenticated(identity.Authenticated(alice))
		require.NoError(t, err)
		assert.Same(t, alice, account)
	})
}

func TestAccount_JSONHidesSecret(t *testing.T) {
	account := &identity.Account{ID: "acc-1", Username: "alice", Email: "alice@x.com", PasswordHash: "$2a$12$hash", Active: true}

	payload, err := json.Marshal(account)
	require.NoError(t, err)

	assert.NotContains(t, string(payload), "$2a$12$hash")
	assert.Contains(t, string(payload), `"createdAt"`)
	assert.Contains(t, string(payload), `"active":true`)
	assert.Empty(t, account.Public().PasswordHash)
	assert.Equal(t, "$2a$12$hash", account.PasswordHash)
}
