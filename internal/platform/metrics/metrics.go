// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics declares the Prometheus collectors for authentication activity.
//
// Collectors are package-level so that the sec, identity and auth packages can
// record without holding a reference to a registry. [Register] must be called
// once at startup to expose them on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginInactive           = "inactive"
	LoginThrottled          = "throttled"
	LoginBadInput           = "bad_input"
)

// Token verification results.
const (
	TokenOK           = "ok"
	TokenMalformed    = "malformed"
	TokenBadSignature = "bad_signature"
	TokenExpired      = "expired"
)

// Password hashing operations.
const (
	HashOpHash   = "hash"
	HashOpVerify = "verify"
)

// LoginAttempts counts login attempts by outcome.
var LoginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "warden_login_attempts_total",
		Help: "Total number of login attempts by outcome",
	},
	[]string{"outcome"},
)

// TokenVerifications counts bearer token verifications by result.
var TokenVerifications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "warden_token_verifications_total",
		Help: "Total number of access token verifications by result",
	},
	[]string{"result"},
)

// PasswordHashDuration observes time spent in bcrypt, including the wait for a pool slot.
var PasswordHashDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "warden_password_hash_seconds",
		Help:    "Password hash and verify duration in seconds",
		Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2, 5},
	},
	[]string{"op"},
)

// Register registers all collectors with the given registry.
// Panics if registration fails (following prometheus convention).
func Register(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(TokenVerifications)
	reg.MustRegister(PasswordHashDuration)
}

// RecordLogin increments the login counter for the given outcome.
func RecordLogin(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

// RecordTokenVerification increments the verification counter for the given result.
func RecordTokenVerification(result string) {
	TokenVerifications.WithLabelValues(result).Inc()
}

// ObserveHash records the duration of a hash operation that started at start.
func ObserveHash(op string, start time.Time) {
	PasswordHashDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
