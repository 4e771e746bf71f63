package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when an entity is not found.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a write is based on a stale revision,
	// or when creating an entity whose id is already taken.
	ErrConflict = errors.New("entity revision conflict")
)
