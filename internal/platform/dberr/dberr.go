// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/warden/internal/platform/apperr"
)

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// UniqueViolation returns the violated constraint name when err is a Postgres
// unique violation (SQLSTATE 23505).
func UniqueViolation(err error) (string, bool) {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		return pgError.ConstraintName, true
	}
	return "", false
}

// Wrap inspects a database error and classifies it.
//
// Unique violations become [apperr.Conflict] with conflictMessage. Everything
// else is wrapped with action and left for the transport to render as a 500.
func Wrap(err error, action, conflictMessage string) error {
	if err == nil {
		return nil
	}

	if _, ok := UniqueViolation(err); ok {
		conflict := apperr.Conflict(conflictMessage)
		conflict.Cause = err
		return conflict
	}

	return fmt.Errorf("%s: %w", action, err)
}
