package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when the stored version differs from the expected one,
	// or when a delivery already has an active NDR.
	ErrConflict = errors.New("conflict")
)
