// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/warden/internal/platform/request"
	"github.com/taibuivan/warden/internal/platform/respond"
	"github.com/taibuivan/warden/internal/users/auth"
)

// Handler implements the HTTP layer for the caller's own account.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account endpoints.
//
// # Endpoints
//   - GET  /me          : The authenticated account.
//   - POST /me/password : Change the password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/me", handler.getMe)
	router.Post("/me/password", handler.changePassword)

	return router
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
GET /api/v1/account/me.

Response:
  - 200: identity.Account: The caller's account
  - 401: UNAUTHENTICATED: No valid identity
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	account, err := handler.accountService.Current(requestutil.Identity(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
POST /api/v1/account/me/password.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 204: Password replaced
  - 400: BAD_INPUT or VALIDATION_ERROR
  - 401: UNAUTHENTICATED: No valid identity
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	// Gate before reading the body.
	caller, err := requestutil.RequiredAccount(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.accountService.ChangePassword(request.Context(), caller, auth.ChangePasswordInput{
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
