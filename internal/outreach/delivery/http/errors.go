package http

import (
	"errors"
	"net/http"

	"ndr-srv/internal/action"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/outreach"
	pkgErrors "ndr-srv/pkg/errors"
)

var (
	errWrongBody = pkgErrors.NewHTTPError(140001, "Wrong body", http.StatusBadRequest)

	errNDRNotFound      = pkgErrors.NewNotFoundHTTPError("NDR not found")
	errNDRNotActive     = pkgErrors.NewConflictHTTPError(140002, "NDR is no longer active")
	errInvalidChannel   = pkgErrors.NewHTTPError(140003, "Channel must be SMS, WHATSAPP, VOICE or EMAIL", http.StatusBadRequest)
	errNoRecipient      = pkgErrors.NewHTTPError(140004, "Customer has no contact for this channel", http.StatusUnprocessableEntity)
	errNoTransport      = pkgErrors.NewHTTPError(140005, "Channel is not configured", http.StatusServiceUnavailable)
	errEmptyMessage     = pkgErrors.NewHTTPError(140006, "Message is empty", http.StatusBadRequest)
	errInvalidResponse  = pkgErrors.NewHTTPError(140007, "Response kind must be RESCHEDULE, CONFIRMED, REFUSED or NO_ANSWER", http.StatusBadRequest)
	errPermissionDenied = pkgErrors.NewPermissionError(140008, "role", "operator role required")
)

func (h handler) mapErrorCode(err error) error {
	switch {
	case errors.Is(err, outreach.ErrNDRNotFound):
		return errNDRNotFound
	case errors.Is(err, outreach.ErrNDRNotActive), errors.Is(err, ndr.ErrTerminal):
		return errNDRNotActive
	case errors.Is(err, outreach.ErrInvalidChannel):
		return errInvalidChannel
	case errors.Is(err, outreach.ErrNoRecipient):
		return errNoRecipient
	case errors.Is(err, outreach.ErrNoTransport):
		return errNoTransport
	case errors.Is(err, outreach.ErrEmptyMessage):
		return errEmptyMessage
	case errors.Is(err, outreach.ErrInvalidResponse):
		return errInvalidResponse
	case errors.Is(err, outreach.ErrPermissionDenied):
		return errPermissionDenied
	case errors.Is(err, ndr.ErrInvalidTransition), errors.Is(err, ndr.ErrConcurrentModification), errors.Is(err, action.ErrExecutionFailed):
		return pkgErrors.NewConflictHTTPError(140009, err.Error())
	}
	return err
}
