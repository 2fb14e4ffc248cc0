package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when a filtered mutation
	// matched no document.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)
