package services

import "errors"

// Sentinel errors returned by the account and log services. Handlers match
// them with errors.Is and turn them into form errors, 404s, or redirects.
var (
	ErrDuplicateUsername = errors.New("Username already exists")
	ErrDuplicateEmail    = errors.New("Email already exists")
	ErrEmailInUse        = errors.New("Email already in use")

	// One message for unknown email and wrong password, so responses cannot
	// be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("Incorrect email/password combination")

	ErrPasswordMismatch = errors.New("Passwords do not match!")
	ErrPasswordTooShort = errors.New("Invalid password length")

	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyComment = errors.New("comment must not be empty")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)
