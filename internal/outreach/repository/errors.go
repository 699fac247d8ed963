package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an attempt was already completed.
	ErrConflict = errors.New("conflict")
)
