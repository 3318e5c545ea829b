// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/warden/pkg/uuid"
)

func TestNew(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.NotEqual(t, first, second)
	assert.True(t, uuid.IsValid(first))

	parsed, err := googleuuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, googleuuid.Version(7), parsed.Version())
}

func TestIsValid(t *testing.T) {
	assert.True(t, uuid.IsValid("0190c3a4-0000-7000-8000-000000000001"))
	assert.False(t, uuid.IsValid(""))
	assert.False(t, uuid.IsValid("acc-1"))
	assert.False(t, uuid.IsValid("{0190c3a4-0000-7000-8000-000000000001}"))
	assert.False(t, uuid.IsValid("0190c3a4-0000-7000-8000-00000000000z"))
}
