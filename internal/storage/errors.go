package storage

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an insert collides with an existing id or
	// (root, artist, version) triple.
	ErrConflict = errors.New("conflict")
)
