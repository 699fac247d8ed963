package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by Begin while another run is running and by
	// Finish when the run is no longer running.
	ErrConflict = errors.New("conflict")
)
