// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides an in-memory credential store for tests.
package authtest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/warden/internal/platform/apperr"
	"github.com/taibuivan/warden/internal/users/identity"
)

// Store is a concurrency-safe, map-backed auth.CredentialStore.
//
// It mirrors the Postgres semantics: exact username match, lower-cased email
// match, (nil, nil) for absence and Conflict on duplicates.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*identity.Account

	// err, when set, is returned by every lookup and write to simulate an outage.
	err error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{accounts: make(map[string]*identity.Account)}
}

// SetErr makes every store call fail with err until it is reset with nil.
func (store *Store) SetErr(err error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.err = err
}

// Put inserts or replaces account as-is.
func (store *Store) Put(account *identity.Account) {
	store.mu.Lock()
	defer store.mu.Unlock()

	clone := *account
	store.accounts[account.ID] = &clone
}

// Get returns a copy of the stored account including its hash.
func (store *Store) Get(id string) *identity.Account {
	store.mu.Lock()
	defer store.mu.Unlock()

	return copyOf(store.accounts[id])
}

// SetActive flips the active flag of an account.
func (store *Store) SetActive(id string, active bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if account, ok := store.accounts[id]; ok {
		account.Active = active
	}
}

// Delete removes an account.
func (store *Store) Delete(id string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.accounts, id)
}

func (store *Store) FindByLoginIdentifier(_ context.Context, identifier string) (*identity.Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.err != nil {
		return nil, store.err
	}

	var byEmail *identity.Account
	for _, account := range store.accounts {
		if account.Username == identifier {
			return copyOf(account), nil
		}
		if account.Email == strings.ToLower(identifier) {
			byEmail = account
		}
	}
	return copyOf(byEmail), nil
}

func (store *Store) FindByID(context context.Context, id string) (*identity.Account, error) {
	account, err := store.FindCredentialsByID(context, id)
	if account != nil {
		account.PasswordHash = ""
	}
	return account, err
}

func (store *Store) FindCredentialsByID(_ context.Context, id string) (*identity.Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.err != nil {
		return nil, store.err
	}
	return copyOf(store.accounts[id]), nil
}

func (store *Store) Taken(_ context.Context, username, email string) (bool, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.err != nil {
		return false, false, store.err
	}

	var usernameTaken, emailTaken bool
	for _, account := range store.accounts {
		usernameTaken = usernameTaken || account.Username == username
		emailTaken = emailTaken || account.Email == email
	}
	return usernameTaken, emailTaken, nil
}

func (store *Store) Create(_ context.Context, account *identity.Account) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.err != nil {
		return store.err
	}

	for _, existing := range store.accounts {
		if existing.Username == account.Username || existing.Email == account.Email {
			return apperr.Conflict("Username or email is already in use")
		}
	}

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	clone := *account
	store.accounts[account.ID] = &clone
	return nil
}

func (store *Store) UpdatePassword(_ context.Context, accountID, newHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.err != nil {
		return store.err
	}

	if account, ok := store.accounts[accountID]; ok {
		account.PasswordHash = newHash
		account.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func copyOf(account *identity.Account) *identity.Account {
	if account == nil {
		return nil
	}
	clone := *account
	return &clone
}
