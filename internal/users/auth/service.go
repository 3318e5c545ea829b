// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements credential verification and account enrollment.

It owns the login flow, the only path that checks a live password and mints a
new access token, together with signup, password changes and the failed-login
throttle.

Architecture:

  - Service: Orchestrates Signup, Login and ChangePassword.
  - CredentialStore: Postgres access to users.account.
  - LoginThrottle: Redis counters of failed attempts.
  - Handler: The /api/v1/auth HTTP surface.

Unknown accounts and wrong passwords are indistinguishable to the caller in
both message and cost.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/taibuivan/warden/internal/platform/apperr"
	"github.com/taibuivan/warden/internal/platform/constants"
	"github.com/taibuivan/warden/internal/platform/ctxutil"
	"github.com/taibuivan/warden/internal/platform/metrics"
	"github.com/taibuivan/warden/internal/platform/sec"
	"github.com/taibuivan/warden/internal/platform/validate"
	"github.com/taibuivan/warden/internal/users/identity"
	"github.com/taibuivan/warden/pkg/uuid"
)

// # Contracts & Types

// PasswordHasher is the slow, pooled password primitive implemented by [*sec.Hasher].
type PasswordHasher interface {
	Hash(context context.Context, plainTextPassword string) (string, error)
	Verify(context context.Context, plainTextPassword, existingHash string) (bool, error)
	VerifyDummy(context context.Context, plainTextPassword string) (bool, error)
	NeedsRehash(existingHash string) bool
}

// TokenIssuer mints access tokens. Implemented by [*sec.TokenService].
type TokenIssuer interface {
	Issue(accountID string, timeToLive time.Duration) (string, error)
	TTL() time.Duration
}

// Service implements the credential use cases.
type Service struct {
	store    CredentialStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	throttle LoginThrottle
}

// NewService constructs a new [Service]. A nil throttle disables throttling.
func NewService(store CredentialStore, hasher PasswordHasher, tokens TokenIssuer, throttle LoginThrottle) *Service {
	if throttle == nil {
		throttle = NoopLoginThrottle{}
	}
	return &Service{
		store:    store,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
	}
}

// # Registration Flow

// SignupInput holds the data required to enroll a new account.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

/*
Signup validates, hashes, and persists a brand new account.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *identity.Account: Created entity without its hash
  - error: ValidationError, Conflict (username or email exists) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*identity.Account, error) {
	username := strings.TrimSpace(input.Username)
	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		Username(FieldUsername, username, UsernameMinLength, UsernameMaxLength).
		Required(FieldEmail, email).
		MaxLen(FieldEmail, email, EmailMaxLength).
		Email(FieldEmail, email)
	validatePassword(validator, FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Uniqueness is checked up front for a precise message; the unique
	// indexes still catch a concurrent duplicate.
	usernameTaken, emailTaken, err := service.store.Taken(context, username, email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}
	if usernameTaken {
		return nil, apperr.Conflict(MessageUsernameTaken)
	}
	if emailTaken {
		return nil, apperr.Conflict(MessageEmailTaken)
	}

	hashedPassword, err := service.hasher.Hash(context, input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	account := &identity.Account{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Active:       true,
	}

	if err := service.store.Create(context, account); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "account_registered", slog.String("account_id", account.ID))

	return account.Public(), nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Identifier string // Username or email
	Password   string
}

// LoginResult is the response of a successful login.
type LoginResult struct {
	Token     string            `json:"token"`
	TokenType string            `json:"tokenType"`
	ExpiresIn string            `json:"expiresIn"`
	Account   *identity.Account `json:"account"`
}

/*
Login verifies credentials and issues an access token.

Description: A password comparison always runs, against the stored hash or a
dummy one, so unknown identifiers cost as much as wrong passwords. Both fail
with the same BadInput message. Only after the password matched is an
inactive account reported as such.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Token and account
  - error: BadInput, RateLimited or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {

	// ── 1. Input ──────────────────────────────────────────────────────────
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || strings.TrimSpace(input.Password) == "" {
		metrics.RecordLogin(metrics.LoginBadInput)
		return nil, apperr.BadInput(MessageMissingCredentials)
	}
	throttleKey := strings.ToLower(identifier)

	// ── 2. Throttle ───────────────────────────────────────────────────────
	if locked, remaining := service.throttle.Locked(context, throttleKey); locked {
		metrics.RecordLogin(metrics.LoginThrottled)
		return nil, apperr.RateLimited(int(math.Ceil(remaining.Seconds())))
	}

	// ── 3. Lookup & Verify ────────────────────────────────────────────────
	account, err := service.store.FindByLoginIdentifier(context, identifier)
	if err != nil {
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	var matched bool
	if account == nil {
		matched, err = service.hasher.VerifyDummy(context, input.Password)
	} else {
		matched, err = service.hasher.Verify(context, input.Password, account.PasswordHash)
	}
	if err != nil {
		return nil, fmt.Errorf("auth_service_login_verify_failed: %w", err)
	}

	if !matched {
		service.throttle.RecordFailure(context, throttleKey)
		metrics.RecordLogin(metrics.LoginInvalidCredentials)
		return nil, apperr.BadInput(MessageInvalidCredentials)
	}

	// ── 4. Status ─────────────────────────────────────────────────────────
	if !account.Active {
		metrics.RecordLogin(metrics.LoginInactive)
		return nil, apperr.BadInput(MessageAccountInactive)
	}

	service.throttle.Reset(context, throttleKey)
	service.upgradeHash(context, account, input.Password)

	// ── 5. Token ──────────────────────────────────────────────────────────
	timeToLive := service.tokens.TTL()
	token, err := service.tokens.Issue(account.ID, timeToLive)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	metrics.RecordLogin(metrics.LoginSuccess)

	return &LoginResult{
		Token:     token,
		TokenType: constants.TokenTypeBearer,
		ExpiresIn: FormatTTL(timeToLive),
		Account:   account.Public(),
	}, nil
}

// upgradeHash re-hashes the password when the stored hash predates the current cost.
// Failures are logged and never fail the login.
func (service *Service) upgradeHash(context context.Context, account *identity.Account, plainTextPassword string) {
	if !service.hasher.NeedsRehash(account.PasswordHash) {
		return
	}

	logger := ctxutil.GetLogger(context)

	hashedPassword, err := service.hasher.Hash(context, plainTextPassword)
	if err == nil {
		err = service.store.UpdatePassword(context, account.ID, hashedPassword)
	}
	if err != nil {
		logger.WarnContext(context, "password_rehash_failed",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	logger.InfoContext(context, "password_rehashed", slog.String("account_id", account.ID))
}

// # Password Management

// ChangePasswordInput holds a password change request of an authenticated account.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

/*
ChangePassword verifies the current secret and stores a hash of the new one.

Description: Previously issued tokens remain valid until they expire.

Parameters:
  - context: context.Context
  - accountID: string (Authenticated caller)
  - input: ChangePasswordInput

Returns:
  - error: ValidationError, BadInput (wrong current password) or storage errors
*/
func (service *Service) ChangePassword(context context.Context, accountID string, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword)
	validatePassword(validator, FieldNewPassword, input.NewPassword)
	validator.Custom(FieldNewPassword, input.NewPassword != "" && input.NewPassword == input.CurrentPassword,
		"Must differ from the current password")

	if err := validator.Err(); err != nil {
		return err
	}

	account, err := service.store.FindCredentialsByID(context, accountID)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_lookup_failed: %w", err)
	}
	if account == nil {
		return apperr.Unauthenticated(identity.MessageAuthRequired)
	}

	matched, err := service.hasher.Verify(context, input.CurrentPassword, account.PasswordHash)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_verify_failed: %w", err)
	}
	if !matched {
		return apperr.BadInput(MessageWrongPassword)
	}

	hashedPassword, err := service.hasher.Hash(context, input.NewPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.store.UpdatePassword(context, account.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "password_changed", slog.String("account_id", account.ID))
	return nil
}

// # Helpers

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FormatTTL renders a token lifetime for the expiresIn field: whole days as
// "<n>d", anything else as a Go duration string.
func FormatTTL(timeToLive time.Duration) string {
	const day = 24 * time.Hour
	if timeToLive > 0 && timeToLive%day == 0 {
		return fmt.Sprintf("%dd", timeToLive/day)
	}
	return timeToLive.String()
}

func validatePassword(validator *validate.Validator, field, password string) {
	validator.Required(field, password).
		MinLen(field, password, PasswordMinLength).
		MaxBytes(field, password, sec.MaxPasswordBytes)
}
