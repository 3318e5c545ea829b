// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/taibuivan/warden/internal/platform/config"
	"github.com/taibuivan/warden/internal/platform/metrics"
)

// MaxPasswordBytes is the longest secret bcrypt accepts. bcrypt ignores every byte
// past this limit, so longer inputs never verify.
const MaxPasswordBytes = 72

// # Password Hasher

// Hasher hashes and verifies password secrets with bcrypt.
//
// # Concurrency
//
// bcrypt is deliberately CPU-expensive. Every computation acquires a slot from a
// weighted semaphore sized by [config.Config.HashPoolSize], so a burst of logins
// queues instead of saturating every core. Waiting for a slot honours context
// cancellation; a computation that already started runs to completion.
type Hasher struct {
	cost      int
	slots     *semaphore.Weighted
	dummyHash []byte
}

// NewHasher creates a [Hasher] with the configured work factor and pool size.
//
// It pre-computes a dummy hash at the same cost, used by [Hasher.VerifyDummy]
// so that "no such account" costs as much as "wrong password".
func NewHasher(cfg *config.Config) (*Hasher, error) {
	if cfg.HashCost < bcrypt.MinCost || cfg.HashCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("sec: invalid bcrypt cost %d", cfg.HashCost)
	}

	filler := make([]byte, 32)
	if _, err := rand.Read(filler); err != nil {
		return nil, fmt.Errorf("sec: failed to generate dummy secret: %w", err)
	}

	dummyHash, err := bcrypt.GenerateFromPassword(filler, cfg.HashCost)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to compute dummy hash: %w", err)
	}

	return &Hasher{
		cost:      cfg.HashCost,
		slots:     semaphore.NewWeighted(int64(cfg.HashPoolSize())),
		dummyHash: dummyHash,
	}, nil
}

// Hash returns a salted bcrypt hash of plainTextPassword.
// Two calls with the same input produce different outputs.
func (hasher *Hasher) Hash(context context.Context, plainTextPassword string) (string, error) {
	var hashedBytes []byte
	var hashErr error

	err := hasher.run(context, metrics.HashOpHash, func() {
		hashedBytes, hashErr = bcrypt.GenerateFromPassword([]byte(plainTextPassword), hasher.cost)
	})
	if err != nil {
		return "", err
	}
	if hashErr != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", hashErr)
	}

	return string(hashedBytes), nil
}

// Verify reports whether plainTextPassword matches existingHash.
//
// bcrypt compares the derived key in constant time. A stored hash that cannot be
// parsed never matches, and neither does a password longer than [MaxPasswordBytes].
// The returned error is only set when no pool slot could be obtained before the
// context ended.
func (hasher *Hasher) Verify(context context.Context, plainTextPassword, existingHash string) (bool, error) {
	return hasher.compare(context, []byte(existingHash), plainTextPassword)
}

// VerifyDummy performs a full-cost comparison against a hash no password matches.
// It always returns false.
func (hasher *Hasher) VerifyDummy(context context.Context, plainTextPassword string) (bool, error) {
	_, err := hasher.compare(context, hasher.dummyHash, plainTextPassword)
	return false, err
}

// NeedsRehash reports whether existingHash was produced with a weaker cost than configured.
func (hasher *Hasher) NeedsRehash(existingHash string) bool {
	cost, err := bcrypt.Cost([]byte(existingHash))
	if err != nil {
		return true
	}
	return cost < hasher.cost
}

func (hasher *Hasher) compare(context context.Context, hash []byte, plainTextPassword string) (bool, error) {
	var compareErr error

	// Same work as a real comparison, against a hash nothing matches.
	tooLong := len(plainTextPassword) > MaxPasswordBytes
	if tooLong {
		hash = hasher.dummyHash
	}

	err := hasher.run(context, metrics.HashOpVerify, func() {
		compareErr = bcrypt.CompareHashAndPassword(hash, []byte(plainTextPassword))
	})
	if err != nil {
		return false, err
	}

	if tooLong {
		return false, nil
	}
	if compareErr != nil && !errors.Is(compareErr, bcrypt.ErrMismatchedHashAndPassword) {
		// Corrupt or foreign hash format.
		return false, nil
	}
	return compareErr == nil, nil
}

// run executes fn while holding one slot of the hashing pool.
func (hasher *Hasher) run(context context.Context, op string, fn func()) error {
	start := time.Now()

	if err := hasher.slots.Acquire(context, 1); err != nil {
		return fmt.Errorf("sec: password hasher unavailable: %w", err)
	}
	defer hasher.slots.Release(1)

	fn()
	metrics.ObserveHash(op, start)
	return nil
}
