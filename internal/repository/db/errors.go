package db

import "errors"

// Sentinel errors the repository surfaces so callers can map storage
// outcomes to HTTP statuses without string matching.
var (
	// ErrNotFound means a referenced user, conversation or message does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument means a required field is missing or malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateEmail means the email is already registered.
	ErrDuplicateEmail = errors.New("email already exists")
)
