// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/warden/internal/platform/apperr"
	requestutil "github.com/taibuivan/warden/internal/platform/request"
	"github.com/taibuivan/warden/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the public authentication endpoints.
//
// # Scope
//
// Both routes work without an identity; neither consumes the resolved request
// identity.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Verifies credentials and returns an access token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Login      string `json:"login"`
	Password   string `json:"password"`
}

// identifier prefers the canonical field and falls back to the "login" alias.
func (input loginRequest) identifier() string {
	if input.Identifier != "" {
		return input.Identifier
	}
	return input.Login
}

/*
Register handles the creation of a new account.

POST /api/v1/auth/register

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 201: identity.Account: Created account
  - 400: VALIDATION_ERROR: Bad JSON or field validation failure
  - 409: CONFLICT: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.Signup(request.Context(), SignupInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

/*
Login authenticates a caller and returns an access token.

POST /api/v1/auth/login

Request:
  - Body: loginRequest (Identifier or Login, Password)

Response:
  - 200: LoginResult: token, tokenType, expiresIn and account
  - 400: BAD_INPUT: Malformed body, missing fields, invalid credentials or deactivated account
  - 429: RATE_LIMITED: Too many failed attempts for this identifier
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	// Malformed login fields share the BAD_INPUT class of every other login rejection.
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, apperr.BadInput(MessageMalformedLogin))
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Identifier: input.identifier(),
		Password:   input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
