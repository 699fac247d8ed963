package http

import (
	"errors"
	"net/http"

	"ndr-srv/internal/action"
	"ndr-srv/internal/ndr"
	pkgErrors "ndr-srv/pkg/errors"
)

var (
	errWrongBody  = pkgErrors.NewHTTPError(120001, "Wrong body", http.StatusBadRequest)
	errWrongQuery = pkgErrors.NewHTTPError(120002, "Wrong query", http.StatusBadRequest)

	errNotFound         = pkgErrors.NewNotFoundHTTPError("NDR not found")
	errInvalidStatus    = pkgErrors.NewHTTPError(120003, "Invalid status", http.StatusBadRequest)
	errConcurrentEdit   = pkgErrors.NewConflictHTTPError(120004, "NDR was modified by someone else, reload and retry")
	errTerminal         = pkgErrors.NewConflictHTTPError(120005, "NDR is already in a terminal state")
	errThresholdNotMet  = pkgErrors.NewConflictHTTPError(120006, "RTO needs at least 3 failed delivery attempts")
	errPermissionDenied = pkgErrors.NewPermissionError(120007, "role", "operator role required")
)

func (h handler) mapErrorCode(err error) error {
	var invalid *ndr.InvalidTransitionError
	switch {
	case errors.Is(err, ndr.ErrNDRNotFound):
		return errNotFound
	case errors.Is(err, ndr.ErrInvalidStatus):
		return errInvalidStatus
	case errors.Is(err, ndr.ErrConcurrentModification):
		return errConcurrentEdit
	case errors.Is(err, ndr.ErrTerminal):
		return errTerminal
	case errors.Is(err, ndr.ErrRTOThresholdNotMet):
		return errThresholdNotMet
	case errors.Is(err, ndr.ErrPermissionDenied), errors.Is(err, action.ErrPermissionDenied):
		return errPermissionDenied
	case errors.As(err, &invalid):
		return pkgErrors.NewConflictHTTPError(120008, invalid.Error())
	case errors.Is(err, ndr.ErrInvalidTransition):
		return pkgErrors.NewConflictHTTPError(120008, err.Error())
	}
	return err
}
