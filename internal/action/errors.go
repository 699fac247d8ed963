package action

import "errors"

var (
	ErrActionNotFound   = errors.New("action not found")
	ErrInvalidKind      = errors.New("invalid action kind")
	ErrAlreadyDecided   = errors.New("action was already decided")
	ErrPermissionDenied = errors.New("permission denied")
	ErrExecutionFailed  = errors.New("action execution failed")
)
