package http

import (
	"errors"
	"net/http"

	"ndr-srv/internal/scheduler"
	pkgErrors "ndr-srv/pkg/errors"
)

var (
	errWrongQuery = pkgErrors.NewHTTPError(150001, "Wrong query", http.StatusBadRequest)
	errNotFound   = pkgErrors.NewNotFoundHTTPError("Scheduler run not found")
)

func (h handler) mapErrorCode(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrRunNotFound):
		return errNotFound
	case errors.Is(err, scheduler.ErrInvalidStatus):
		return errWrongQuery
	}
	return err
}
