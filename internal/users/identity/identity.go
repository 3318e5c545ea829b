// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity models who is calling: the account entity, the per-request
identity result, the resolver that computes it and the gate that enforces it.

Architecture:

  - Account: the credential record as seen by the rest of the service.
  - Result: an immutable tagged variant, either anonymous or authenticated.
  - Resolver: a total function from a bearer header to a Result.
  - RequireAuthenticated: the single guard every protected operation calls.

The package depends only on small interfaces so that transport and storage
packages can both import it without cycles.
*/
package identity

import "time"

// # Domain Entities

// Account represents one credential record able to authenticate.
//
// PasswordHash is populated only on the credential-verification path and is never
// serialized.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public returns a copy of the account with the secret field cleared.
func (account *Account) Public() *Account {
	if account == nil {
		return nil
	}
	clone := *account
	clone.PasswordHash = ""
	return &clone
}

// # Request Identity

// Result is the identity of the caller for one request.
//
// The zero value is anonymous. A Result is never persisted and never mutated
// after construction.
type Result struct {
	account *Account
}

// Anonymous returns the unauthenticated result.
func Anonymous() Result {
	return Result{}
}

// Authenticated returns a result bound to account. A nil account is anonymous.
func Authenticated(account *Account) Result {
	return Result{account: account}
}

// IsAuthenticated reports whether the caller presented a valid token for an active account.
func (result Result) IsAuthenticated() bool {
	return result.account != nil
}

// Account returns the authenticated account, or nil when anonymous.
func (result Result) Account() *Account {
	return result.account
}

// AccountID returns the authenticated account id, or "" when anonymous.
func (result Result) AccountID() string {
	if result.account == nil {
		return ""
	}
	return result.account.ID
}
