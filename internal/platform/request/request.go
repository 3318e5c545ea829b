// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It centralizes body decoding and access to the resolved request identity so
that handlers never read context keys directly.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/taibuivan/warden/internal/platform/ctxutil"
	"github.com/taibuivan/warden/internal/platform/validate"
	"github.com/taibuivan/warden/internal/users/identity"
)

// maxBodyBytes caps JSON request bodies. Credential payloads are tiny.
const maxBodyBytes = 64 << 10

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (Used to enforce the body size limit)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)

	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Identity returns the identity resolved for this request.

The zero value, anonymous, is returned when the resolver never ran.
*/
func Identity(request *http.Request) identity.Result {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredAccount passes the request identity through the authorization gate.

Returns:
  - *identity.Account: The authenticated, active caller
  - error: apperr.Unauthenticated if the request is anonymous
*/
func RequiredAccount(request *http.Request) (*identity.Account, error) {
	return identity.RequireAuthenticated(Identity(request))
}
