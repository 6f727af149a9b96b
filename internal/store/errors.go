package store

import "errors"

var (
	// ErrNotFound is returned by lookups with no match.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when a unique key (external message id,
	// evaluation-per-inference) would be violated.
	ErrDuplicate = errors.New("store: duplicate record")
	// ErrMissingParent is returned when a record references a nonexistent
	// inference.
	ErrMissingParent = errors.New("store: referenced inference does not exist")
)
