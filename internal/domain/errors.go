// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("duplicate record")

	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Confirmation-related errors
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	ErrAlreadyConfirmed        = errors.New("already confirmed")

	// Organization-related errors
	ErrOrganizationNotFound   = errors.New("organization not found")
	ErrOrganizationUnresolved = errors.New("unable to determine organization for user")

	// Collection-related errors
	ErrConfirmationRequired = errors.New("deletion requires explicit confirmation")
	ErrSubmissionInFlight   = errors.New("a submission is already in flight")
)
