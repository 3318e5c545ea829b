// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementTimeoutQuery(t *testing.T) {
	assert.Equal(t, "SET statement_timeout = '10000ms'", statementTimeoutQuery(10*time.Second))
}

func TestPing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing()
	assert.NoError(t, Ping(context.Background(), mock))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = Ping(context.Background(), mock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: ping failed")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "::not a dsn::", nil)
	assert.Error(t, err)
}
