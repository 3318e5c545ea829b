// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/warden/internal/users/identity"
)

// # Credential Data Access

// CredentialStore defines the data access contract for credential records.
//
// Absence is not an error: finders return (nil, nil) when nothing matches and
// leave the decision to the caller.
type CredentialStore interface {

	/*
		FindByLoginIdentifier returns the account whose username equals identifier
		(case-sensitive) or whose email equals its lower-cased form.

		This is the only read that includes the password hash.

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - *identity.Account: Hydrated entity with PasswordHash, or nil
		  - error: Database retrieval failures
	*/
	FindByLoginIdentifier(context context.Context, identifier string) (*identity.Account, error)

	/*
		FindByID returns the account with the given ID, without its password hash.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *identity.Account: Hydrated entity, or nil
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*identity.Account, error)

	/*
		FindCredentialsByID returns the account with the given ID including its
		password hash. Used by password changes.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *identity.Account: Hydrated entity with PasswordHash, or nil
		  - error: Database retrieval failures
	*/
	FindCredentialsByID(context context.Context, id string) (*identity.Account, error)

	/*
		Taken reports which of username and email already belong to an account.

		Parameters:
		  - context: context.Context
		  - username: string
		  - email: string (Normalized)

		Returns:
		  - usernameTaken, emailTaken: bool
		  - error: Database retrieval failures
	*/
	Taken(context context.Context, username, email string) (usernameTaken, emailTaken bool, err error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - account: *identity.Account (PasswordHash must be set)

		Returns:
		  - error: apperr.Conflict on a unique violation, or persistence failures
	*/
	Create(context context.Context, account *identity.Account) error

	/*
		UpdatePassword replaces only the account's password hash and refreshes updatedat.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, accountID, newHash string) error
}
