package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a conditional update finds the
	// entity in a state that no longer matches its predicate, e.g. a
	// pending->accepted swap losing to a concurrent writer.
	ErrConflict = errors.New("conditional update conflict")
)
