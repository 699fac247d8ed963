package ndr

import (
	"errors"
	"fmt"

	"ndr-srv/internal/model"
)

var (
	ErrNDRNotFound            = errors.New("ndr not found")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrApprovalRequired       = errors.New("transition requires an approved action")
	ErrRTOThresholdNotMet     = errors.New("attempt number below the RTO threshold")
	ErrConcurrentModification = errors.New("ndr was modified concurrently")
	ErrActiveNDRExists        = errors.New("delivery already has an active ndr")
	ErrTerminal               = errors.New("ndr is in a terminal state")
	ErrDeliveryRequired       = errors.New("delivery id is required")
	ErrInvalidReason          = errors.New("invalid reason")
	ErrInvalidConfidence      = errors.New("confidence must be within 0 and 1")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrPermissionDenied       = errors.New("permission denied")
)

// InvalidTransitionError names the rejected move. It matches ErrInvalidTransition.
type InvalidTransitionError struct {
	From model.NDRStatus
	To   model.NDRStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
