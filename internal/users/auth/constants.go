// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Credential Constraints

const (
	UsernameMinLength = 3
	UsernameMaxLength = 30
	EmailMaxLength    = 254
	PasswordMinLength = 8
)

// # JSON Field Names

const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
)

// # Client Messages

const (
	// MessageInvalidCredentials is shared by "no such account" and "wrong password".
	MessageInvalidCredentials = "Invalid login credentials"

	// MessageAccountInactive is returned only after the password matched.
	MessageAccountInactive = "This account has been deactivated"

	MessageMissingCredentials = "Identifier and password are required"
	MessageMalformedLogin     = "Login request must be a JSON object"
	MessageUsernameTaken      = "Username is already taken"
	MessageEmailTaken         = "Email is already registered"
	MessageAccountTaken       = "Username or email is already in use"
	MessageWrongPassword      = "Current password is incorrect"
)
