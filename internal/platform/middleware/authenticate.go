// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"

	"github.com/taibuivan/warden/internal/platform/constants"
	"github.com/taibuivan/warden/internal/platform/ctxutil"
	"github.com/taibuivan/warden/internal/platform/respond"
	"github.com/taibuivan/warden/internal/users/identity"
)

// IdentityResolver computes the caller identity from an Authorization header.
type IdentityResolver interface {
	Resolve(context context.Context, authorizationHeader string) (identity.Result, error)
}

// Authenticate resolves the request identity once and stores it in the context.
//
// # Flow
//  1. Hand the raw Authorization header to the [IdentityResolver].
//  2. Any credential problem yields an anonymous identity and the request proceeds;
//     public routes keep working and protected ones fail at the gate.
//  3. A store failure while loading the account aborts the request with 500.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			result, err := resolver.Resolve(request.Context(), request.Header.Get(constants.HeaderAuthorization))
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if result.IsAuthenticated() {
				if recorder, ok := writer.(*statusRecorder); ok {
					recorder.tagAccount(result.AccountID())
				}
			}

			ctx := ctxutil.WithIdentity(request.Context(), result)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
