package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrTokenSignature     = errors.New("token signature invalid")
	ErrForbidden          = errors.New("forbidden")

	// ErrStoreUnavailable marks a store call that timed out or was
	// cancelled, as opposed to a definitive not-found/duplicate result.
	ErrStoreUnavailable = errors.New("store unavailable")
)
