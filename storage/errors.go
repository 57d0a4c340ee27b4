package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when an instance is not cached or its entry
	// has expired.
	ErrNotFound = errors.New("instance not found")
)
