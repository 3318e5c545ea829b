// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import "github.com/taibuivan/warden/internal/platform/apperr"

// MessageAuthRequired is the client-facing message of the gate rejection.
const MessageAuthRequired = "Authentication required"

/*
RequireAuthenticated is the authorization gate for protected operations.

Parameters:
  - result: Result (The identity computed once for the current request)

Returns:
  - *Account: The exact account carried by result
  - error: apperr.Unauthenticated when result is anonymous
*/
func RequireAuthenticated(result Result) (*Account, error) {
	if !result.IsAuthenticated() {
		return nil, apperr.Unauthenticated(MessageAuthRequired)
	}
	return result.account, nil
}
