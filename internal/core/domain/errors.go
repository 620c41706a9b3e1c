package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the identifier is already registered.
	// Safe to surface with the offending email.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials indicates a failed login. Deliberately generic:
	// callers must not be able to tell an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized indicates authentication failed or is missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidSubject indicates a token was requested for an empty subject
	ErrInvalidSubject = errors.New("invalid token subject")

	// ErrTokenMalformed indicates the token could not be parsed
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenInvalid indicates the token signature did not verify
	ErrTokenInvalid = errors.New("token invalid")

	// ErrTokenExpired indicates the token has expired
	ErrTokenExpired = errors.New("token expired")
)
