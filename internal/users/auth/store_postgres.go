// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/warden/internal/platform/dberr"
	"github.com/taibuivan/warden/internal/users/identity"
	"github.com/taibuivan/warden/pkg/uuid"
)

// Querier is the subset of [*pgxpool.Pool] used by the credential store.
type Querier interface {
	Exec(context context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(context context.Context, sql string, arguments ...any) pgx.Row
}

// # Credential Repository

// PostgresCredentialStore implements [CredentialStore] on the users.account table.
type PostgresCredentialStore struct {
	db  Querier
	now func() time.Time
}

// NewPostgresCredentialStore creates a new PostgreSQL implementation of [CredentialStore].
func NewPostgresCredentialStore(db Querier) *PostgresCredentialStore {
	return &PostgresCredentialStore{db: db, now: time.Now}
}

const (
	publicColumns = `id, username, email, isactive, createdat, updatedat`
	secretColumns = `id, username, email, passwordhash, isactive, createdat, updatedat`

	// Constraint names from 000001_create_accounts.
	constraintUsername = "account_username_key"
	constraintEmail    = "account_email_key"
)

/*
FindByLoginIdentifier looks an account up by username or email.

Description: The username comparison is exact. The email comparison lower-cases
the identifier, matching the normalized stored value. An exact username match
wins if both could apply.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - *identity.Account: Account including PasswordHash, or nil
  - error: Database errors
*/
func (repository *PostgresCredentialStore) FindByLoginIdentifier(context context.Context, identifier string) (*identity.Account, error) {
	const query = `
		SELECT ` + secretColumns + `
		FROM users.account
		WHERE username = $1 OR email = lower($1)
		ORDER BY (username = $1) DESC
		LIMIT 1`

	account, err := scanSecret(repository.db.QueryRow(context, query, identifier))
	if err != nil {
		return nil, fmt.Errorf("postgres_credential_store_find_by_identifier_failed: %w", err)
	}
	return account, nil
}

/*
FindByID retrieves an account by primary key, withholding the password hash.

Description: Ids that are not UUIDs cannot exist and return nil without a
round-trip, which also keeps a malformed subject from becoming a cast error.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *identity.Account: Account without PasswordHash, or nil
  - error: Database errors
*/
func (repository *PostgresCredentialStore) FindByID(context context.Context, id string) (*identity.Account, error) {
	if !uuid.IsValid(id) {
		return nil, nil
	}

	const query = `SELECT ` + publicColumns + ` FROM users.account WHERE id = $1`

	account := &identity.Account{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres_credential_store_find_by_id_failed: %w", err)
	}

	return account, nil
}

// FindCredentialsByID retrieves an account by primary key including its password hash.
func (repository *PostgresCredentialStore) FindCredentialsByID(context context.Context, id string) (*identity.Account, error) {
	if !uuid.IsValid(id) {
		return nil, nil
	}

	const query = `SELECT ` + secretColumns + ` FROM users.account WHERE id = $1`

	account, err := scanSecret(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, fmt.Errorf("postgres_credential_store_find_credentials_failed: %w", err)
	}
	return account, nil
}

/*
Taken reports whether username or email are already registered.

Parameters:
  - context: context.Context
  - username: string
  - email: string

Returns:
  - usernameTaken, emailTaken: bool
  - error: Database errors
*/
func (repository *PostgresCredentialStore) Taken(context context.Context, username, email string) (bool, bool, error) {
	const query = `
		SELECT
			EXISTS (SELECT 1 FROM users.account WHERE username = $1),
			EXISTS (SELECT 1 FROM users.account WHERE email = $2)`

	var usernameTaken, emailTaken bool
	if err := repository.db.QueryRow(context, query, username, email).Scan(&usernameTaken, &emailTaken); err != nil {
		return false, false, fmt.Errorf("postgres_credential_store_taken_failed: %w", err)
	}

	return usernameTaken, emailTaken, nil
}

/*
Create persists a new account record into the users.account table.

Description: Initializes audit timestamps. A concurrent signup that slips past
the uniqueness check is caught by the unique indexes and reported as Conflict.

Parameters:
  - context: context.Context
  - account: *identity.Account

Returns:
  - error: apperr.Conflict or database errors
*/
func (repository *PostgresCredentialStore) Create(context context.Context, account *identity.Account) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := repository.now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Active,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_credential_store_create_failed", conflictMessage(err))
	}

	return nil
}

/*
UpdatePassword replaces the stored hash of one account.

Parameters:
  - context: context.Context
  - accountID: string
  - newHash: string

Returns:
  - error: Database errors
*/
func (repository *PostgresCredentialStore) UpdatePassword(context context.Context, accountID, newHash string) error {
	const query = `UPDATE users.account SET passwordhash = $2, updatedat = $3 WHERE id = $1`

	if _, err := repository.db.Exec(context, query, accountID, newHash, repository.now().UTC()); err != nil {
		return fmt.Errorf("postgres_credential_store_update_password_failed: %w", err)
	}
	return nil
}

// # Helpers

func scanSecret(row pgx.Row) (*identity.Account, error) {
	account := &identity.Account{}
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func conflictMessage(err error) string {
	constraint, _ := dberr.UniqueViolation(err)
	switch constraint {
	case constraintUsername:
		return MessageUsernameTaken
	case constraintEmail:
		return MessageEmailTaken
	default:
		return MessageAccountTaken
	}
}
