package scheduler

import "errors"

var (
	ErrRunNotFound      = errors.New("scheduler run not found")
	ErrInvalidStatus    = errors.New("invalid run status")
	// ErrSchedulerOverrun marks a run that did not finish before its deadline.
	ErrSchedulerOverrun = errors.New("scheduler run exceeded its deadline")
)
