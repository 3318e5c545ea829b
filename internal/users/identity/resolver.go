// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/warden/internal/platform/metrics"
	"github.com/taibuivan/warden/internal/platform/sec"
)

// BearerScheme is the only authorization scheme recognised by the resolver.
const BearerScheme = "Bearer"

// TokenVerifier checks a compact access token.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.VerifiedToken, error)
}

// AccountFinder loads an account by id without its secret field.
// It returns (nil, nil) when no account matches.
type AccountFinder interface {
	FindByID(context context.Context, id string) (*Account, error)
}

// # Context Resolver

// Resolver computes the [Result] of an inbound request.
//
// It is read-only: it never writes to the store and never issues tokens.
type Resolver struct {
	tokens   TokenVerifier
	accounts AccountFinder
	logger   *slog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(tokens TokenVerifier, accounts AccountFinder, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{tokens: tokens, accounts: accounts, logger: logger}
}

/*
Resolve turns an Authorization header value into a request identity.

Every credential problem folds into [Anonymous]: no header, another scheme, an
empty token, a token that fails verification, an unknown account or an
inactive one. The error return is reserved for store failures, which are fatal
for the request.

Parameters:
  - context: context.Context
  - authorizationHeader: string (Raw header value, possibly empty)

Returns:
  - Result: Anonymous or Authenticated
  - error: Non-nil only when the account lookup itself failed
*/
func (resolver *Resolver) Resolve(context context.Context, authorizationHeader string) (Result, error) {

	// ── 1. Credential Extraction ──────────────────────────────────────────
	tokenString, ok := BearerToken(authorizationHeader)
	if !ok {
		return Anonymous(), nil
	}

	// ── 2. Token Verification ─────────────────────────────────────────────
	verified, err := resolver.tokens.Verify(tokenString)
	if err != nil {
		kind := failureKind(err)
		metrics.RecordTokenVerification(kind)
		resolver.logger.DebugContext(context, "token_rejected",
			slog.String("kind", kind),
			slog.String("error", err.Error()),
		)
		return Anonymous(), nil
	}
	metrics.RecordTokenVerification(metrics.TokenOK)

	// ── 3. Account Lookup ─────────────────────────────────────────────────
	account, err := resolver.accounts.FindByID(context, verified.AccountID)
	if err != nil {
		return Anonymous(), fmt.Errorf("identity_resolve_account_failed: %w", err)
	}
	if account == nil || !account.Active {
		resolver.logger.DebugContext(context, "token_subject_unavailable",
			slog.String("account_id", verified.AccountID),
			slog.Bool("found", account != nil),
		)
		return Anonymous(), nil
	}

	return Authenticated(account.Public()), nil
}

// BearerToken extracts the token from an Authorization header value.
//
// The scheme is matched case-insensitively. It returns false when the header is
// empty, uses another scheme, or carries no token.
func BearerToken(authorizationHeader string) (string, bool) {
	header := strings.TrimSpace(authorizationHeader)
	if len(header) <= len(BearerScheme) || !strings.EqualFold(header[:len(BearerScheme)], BearerScheme) {
		return "", false
	}

	rest := header[len(BearerScheme):]
	if rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}

	token := strings.TrimSpace(rest)
	if token == "" {
		return "", false
	}
	return token, true
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, sec.ErrExpired):
		return metrics.TokenExpired
	case errors.Is(err, sec.ErrBadSignature):
		return metrics.TokenBadSignature
	default:
		return metrics.TokenMalformed
	}
}
