package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when the action is no longer pending, or a
	// pending action of the same kind already exists for the NDR.
	ErrConflict = errors.New("conflict")
)
