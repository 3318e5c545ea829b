// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/warden/internal/platform/metrics"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { metrics.Register(reg) })

	// A second registration on the same registry is a programming error.
	assert.Panics(t, func() { metrics.Register(reg) })
}

func TestRecordLogin(t *testing.T) {
	before := testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues(metrics.LoginThrottled))
	metrics.RecordLogin(metrics.LoginThrottled)
	after := testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues(metrics.LoginThrottled))

	assert.Equal(t, before+1, after)
}

func TestRecordTokenVerification(t *testing.T) {
	before := testutil.ToFloat64(metrics.TokenVerifications.WithLabelValues(metrics.TokenExpired))
	metrics.RecordTokenVerification(metrics.TokenExpired)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.TokenVerifications.WithLabelValues(metrics.TokenExpired)))
}

func TestObserveHash(t *testing.T) {
	metrics.ObserveHash(metrics.HashOpVerify, time.Now().Add(-10*time.Millisecond))
	assert.Positive(t, testutil.CollectAndCount(metrics.PasswordHashDuration))
}
