package models

import "errors"

// Store operations wrap these sentinels so handlers can map them to
// HTTP status codes with errors.Is.
var (
	// ErrNotFound is returned when a profile, nested entry, or
	// catalog item is required to exist and does not.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a create would duplicate a unique
	// key (external id or email).
	ErrConflict = errors.New("already exists")

	// ErrInvalidArgument is returned for missing required fields and
	// out-of-enum values.
	ErrInvalidArgument = errors.New("invalid argument")
)
