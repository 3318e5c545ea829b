// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/warden/internal/platform/config"
	"github.com/taibuivan/warden/internal/platform/sec"
)

func newTestHasher(t *testing.T, workers int) *sec.Hasher {
	t.Helper()
	hasher, err := sec.NewHasher(&config.Config{HashCost: bcrypt.MinCost, HashWorkers: workers})
	require.NoError(t, err)
	return hasher
}

/*
TestHasher_HashAndVerify covers the round-trip properties of the hasher.
*/
func TestHasher_HashAndVerify(t *testing.T) {
	hasher := newTestHasher(t, 2)
	ctx := context.Background()

	t.Run("correct password verifies", func(t *testing.T) {
		hash, err := hasher.Hash(ctx, "Passw0rd1")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"))

		ok, err := hasher.Verify(ctx, "Passw0rd1", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("different password fails", func(t *testing.T) {
		hash, err := hasher.Hash(ctx, "Passw0rd1")
		require.NoError(t, err)

		ok, err := hasher.Verify(ctx, "Passw0rd2", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("same password produces different hashes (salt)", func(t *testing.T) {
		first, err := hasher.Hash(ctx, "samepassword")
		require.NoError(t, err)
		second, err := hasher.Hash(ctx, "samepassword")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)

		for _, hash := range []string{first, second} {
			ok, err := hasher.Verify(ctx, "samepassword", hash)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("corrupt hash never matches", func(t *testing.T) {
		ok, err := hasher.Verify(ctx, "anything", "not-a-bcrypt-hash")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("bytes past the bcrypt limit are not ignored", func(t *testing.T) {
		limit := strings.Repeat("a", sec.MaxPasswordBytes)
		hash, err := hasher.Hash(ctx, limit)
		require.NoError(t, err)

		ok, err := hasher.Verify(ctx, limit, hash)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = hasher.Verify(ctx, limit+"EXTRA", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("hash uses the configured cost", func(t *testing.T) {
		hash, err := hasher.Hash(ctx, "costcheck")
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
		assert.False(t, hasher.NeedsRehash(hash))
	})
}

/*
TestHasher_VerifyDummy checks that the timing-equalisation path never succeeds.
*/
func TestHasher_VerifyDummy(t *testing.T) {
	hasher := newTestHasher(t, 1)

	for _, candidate := range []string{"", "password", "Passw0rd1"} {
		ok, err := hasher.VerifyDummy(context.Background(), candidate)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

/*
TestHasher_NeedsRehash flags hashes weaker than the configured cost.
*/
func TestHasher_NeedsRehash(t *testing.T) {
	hasher, err := sec.NewHasher(&config.Config{HashCost: bcrypt.MinCost + 1, HashWorkers: 1})
	require.NoError(t, err)

	weak, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, hasher.NeedsRehash(string(weak)))
	assert.True(t, hasher.NeedsRehash("garbage"))
}

/*
TestHasher_CancelledContext verifies that a caller whose context already ended
does not take a pool slot.
*/
func TestHasher_CancelledContext(t *testing.T) {
	hasher := newTestHasher(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hasher.Hash(ctx, "Passw0rd1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = hasher.Verify(ctx, "Passw0rd1", "irrelevant")
	assert.ErrorIs(t, err, context.Canceled)
}

/*
TestNewHasher_RejectsInvalidCost guards the constructor.
*/
func TestNewHasher_RejectsInvalidCost(t *testing.T) {
	_, err := sec.NewHasher(&config.Config{HashCost: 99})
	assert.Error(t, err)
}
