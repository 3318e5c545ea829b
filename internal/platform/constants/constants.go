// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the Warden service.

Categories:

  - Server Timing: HTTP server and shutdown deadlines.
  - Rate Limiting: Per-IP token bucket parameters.
  - Headers & Fields: Wire names shared by middleware and handlers.
  - Storage Keys: Schema names and Redis key prefixes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "warden"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout bounds the response write. Login runs a full bcrypt
	// comparison, so it leaves headroom above the hashing pool wait.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 10 * time.Second

	// ShutdownTimeout is how long in-flight requests get to complete during shutdown.
	ShutdownTimeout = 20 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often idle IP entries are evicted.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Token Presentation

const (
	// TokenTypeBearer is the tokenType returned by login.
	TokenTypeBearer = "Bearer"
)

// # Database Schemas

const (
	SchemaUsers = "users"
)

// # Redis Prefixes

const (
	// RedisPrefixLoginFailures keys the failed-login counter of one identifier.
	RedisPrefixLoginFailures = "auth:login_failures:"
)
