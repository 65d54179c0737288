// Package storage holds what every storage backend shares.
package storage

import "errors"

var (
	// ErrNotFound: no bytes at the derived location.
	ErrNotFound = errors.New("stored object not found")
	// ErrAlreadyExists: something already lives at the derived location.
	// Backends never overwrite; for generated stored names this means the
	// generator collided.
	ErrAlreadyExists = errors.New("stored object already exists")
)
