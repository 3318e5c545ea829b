// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// identity resolver and the auth service.
package sec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/warden/internal/platform/config"
)

// # Verification Failures

// Failure kinds returned (wrapped in [*VerificationError]) by [TokenService.Verify].
// Callers outside diagnostics treat all of them as "not authenticated".
var (
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature invalid")
	ErrExpired      = errors.New("token expired")
)

// VerificationError reports why a token was rejected.
//
// Kind is one of [ErrMalformed], [ErrBadSignature] or [ErrExpired] and is matched
// with [errors.Is]. Cause keeps the underlying jwt error for logging.
type VerificationError struct {
	Kind  error
	Cause error
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	if e.Cause == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Cause.Error()
}

// Unwrap exposes both the kind and the cause to [errors.Is].
func (e *VerificationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func fail(kind, cause error) error {
	return &VerificationError{Kind: kind, Cause: cause}
}

// # Claims

// AuthClaims represents the payload embedded inside an access token.
//
// Only registered claims are used: sub (account id), iss, iat and exp. The token
// asserts who the caller was at issuance time; account status is re-checked
// against the store on every request.
type AuthClaims struct {
	jwt.RegisteredClaims
}

// VerifiedToken is the result of a successful [TokenService.Verify].
type VerifiedToken struct {
	AccountID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// # Token Service

// TokenService issues and verifies HS256-signed access tokens.
//
// It holds no per-token state: validity is a function of the signature and the
// expiry claim only. Rotating the secret invalidates every issued token.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService creates a new TokenService from the process configuration.
func NewTokenService(cfg *config.Config) (*TokenService, error) {
	if len(cfg.TokenSecret) < config.MinTokenSecretLength {
		return nil, fmt.Errorf("auth: signing secret must be at least %d bytes", config.MinTokenSecretLength)
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("auth: token time-to-live must be positive")
	}

	service := &TokenService{
		secret: []byte(cfg.TokenSecret),
		issuer: cfg.TokenIssuer,
		ttl:    cfg.TokenTTL,
	}
	return service.WithClock(time.Now), nil
}

// WithClock returns a copy of the service that reads the current time from now.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *service
	clone.now = now

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	}
	if service.issuer != "" {
		options = append(options, jwt.WithIssuer(service.issuer))
	}
	clone.parser = jwt.NewParser(options...)

	return &clone
}

// TTL returns the configured access token lifetime.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Issue creates a signed access token for accountID that expires after timeToLive.
func (service *TokenService) Issue(accountID string, timeToLive time.Duration) (string, error) {
	if accountID == "" {
		return "", errors.New("auth: cannot issue a token without a subject")
	}
	if timeToLive <= 0 {
		return "", errors.New("auth: token time-to-live must be positive")
	}

	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks structure, signature and expiry of tokenString, in that order.
//
// The signature is checked over the raw header and claims segments before the
// claims are decoded, so any change to those bytes is reported as
// [ErrBadSignature] rather than as a decoding problem.
func (service *TokenService) Verify(tokenString string) (*VerifiedToken, error) {

	// ── 1. Structure ──────────────────────────────────────────────────────
	segments := strings.Split(tokenString, ".")
	if len(segments) != 3 {
		return nil, fail(ErrMalformed, fmt.Errorf("expected 3 segments, got %d", len(segments)))
	}

	decoded := make([][]byte, len(segments))
	for index, segment := range segments {
		bytes, err := service.parser.DecodeSegment(segment)
		if err != nil {
			return nil, fail(ErrMalformed, err)
		}
		decoded[index] = bytes
	}

	// ── 2. Signature ──────────────────────────────────────────────────────
	signingInput := segments[0] + "." + segments[1]
	if err := jwt.SigningMethodHS256.Verify(signingInput, decoded[2], service.secret); err != nil {
		return nil, fail(ErrBadSignature, err)
	}

	// ── 3. Claims & Expiry ────────────────────────────────────────────────
	claims := &AuthClaims{}
	token, err := service.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return service.secret, nil
	})

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fail(ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, fail(ErrBadSignature, err)
	default:
		return nil, fail(ErrMalformed, err)
	}

	if !token.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, fail(ErrMalformed, errors.New("missing subject or expiry"))
	}

	verified := &VerifiedToken{
		AccountID: claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		verified.IssuedAt = claims.IssuedAt.Time
	}

	return verified, nil
}
