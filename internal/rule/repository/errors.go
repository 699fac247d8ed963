package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict means the stored version differs from the expected one.
	ErrConflict = errors.New("version conflict")
)
