package http

import (
	"errors"
	"net/http"

	"ndr-srv/internal/action"
	"ndr-srv/internal/ndr"
	pkgErrors "ndr-srv/pkg/errors"
)

var (
	errWrongBody  = pkgErrors.NewHTTPError(130001, "Wrong body", http.StatusBadRequest)
	errWrongQuery = pkgErrors.NewHTTPError(130002, "Wrong query", http.StatusBadRequest)

	errNotFound         = pkgErrors.NewNotFoundHTTPError("Action not found")
	errAlreadyDecided   = pkgErrors.NewConflictHTTPError(130003, "Action was already decided")
	errPermissionDenied = pkgErrors.NewPermissionError(130004, "role", "supervisor role required")
)

func (h handler) mapErrorCode(err error) error {
	switch {
	case errors.Is(err, action.ErrActionNotFound):
		return errNotFound
	case errors.Is(err, action.ErrAlreadyDecided):
		return errAlreadyDecided
	case errors.Is(err, action.ErrPermissionDenied):
		return errPermissionDenied
	case errors.Is(err, action.ErrExecutionFailed), errors.Is(err, ndr.ErrInvalidTransition), errors.Is(err, ndr.ErrTerminal):
		return pkgErrors.NewConflictHTTPError(130005, err.Error())
	}
	return err
}
