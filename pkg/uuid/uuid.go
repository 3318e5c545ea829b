// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered identifiers for account primary keys.

Version 7 values sort by creation time, which keeps the users.account B-tree
index append-mostly.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// IsValid reports whether value parses as a canonical 36-character UUID.
func IsValid(value string) bool {
	if len(value) != 36 {
		return false
	}
	return uuid.Validate(value) == nil
}
