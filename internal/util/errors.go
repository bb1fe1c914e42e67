package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrNoMatch indicates no catalog row or provider candidate matched
	ErrNoMatch = errors.New("no match")

	// ErrMalformed indicates a candidate record is missing a required field
	// or carries an unparseable token
	ErrMalformed = errors.New("malformed candidate")

	// ErrNotFound indicates a required resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")
)
