// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account implements the operations of the authenticated caller on their
own account.

Every operation passes the request identity through
[identity.RequireAuthenticated] exactly once before touching anything else:
[Service.Current] gates itself, the password handler gates before decoding the
body and hands the gated account to [Service.ChangePassword].
*/
package account

import (
	"context"

	"github.com/taibuivan/warden/internal/users/auth"
	"github.com/taibuivan/warden/internal/users/identity"
)

// PasswordChanger re-verifies and replaces an account's secret. Implemented by [*auth.Service].
type PasswordChanger interface {
	ChangePassword(context context.Context, accountID string, input auth.ChangePasswordInput) error
}

// Service implements the "current account" use cases.
type Service struct {
	passwords PasswordChanger
}

// NewService constructs a new account [Service].
func NewService(passwords PasswordChanger) *Service {
	return &Service{passwords: passwords}
}

/*
Current returns the calling account.

Parameters:
  - caller: identity.Result (Identity resolved for the request)

Returns:
  - *identity.Account: The gated account, as loaded by the resolver
  - error: apperr.Unauthenticated for anonymous callers
*/
func (service *Service) Current(caller identity.Result) (*identity.Account, error) {
	return identity.RequireAuthenticated(caller)
}

/*
ChangePassword replaces the password of an already gated account.

Parameters:
  - context: context.Context
  - caller: *identity.Account (Returned by the gate)
  - input: auth.ChangePasswordInput

Returns:
  - error: ValidationError, BadInput or storage errors
*/
func (service *Service) ChangePassword(context context.Context, caller *identity.Account, input auth.ChangePasswordInput) error {
	return service.passwords.ChangePassword(context, caller.ID, input)
}
