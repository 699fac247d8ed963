package http

import (
	"errors"
	"net/http"

	"ndr-srv/internal/rule"
	pkgErrors "ndr-srv/pkg/errors"
)

var (
	errWrongBody  = pkgErrors.NewHTTPError(110001, "Wrong body", http.StatusBadRequest)
	errWrongQuery = pkgErrors.NewHTTPError(110002, "Wrong query", http.StatusBadRequest)

	errNotFound         = pkgErrors.NewNotFoundHTTPError("Rule not found")
	errInvalidRule      = pkgErrors.NewHTTPError(110003, "Invalid rule", http.StatusBadRequest)
	errConcurrentEdit   = pkgErrors.NewConflictHTTPError(110004, "Rule was modified concurrently, reload and retry")
	errPermissionDenied = pkgErrors.NewPermissionError(110005, "role", "operator role required")
)

func (h handler) mapErrorCode(err error) error {
	switch {
	case errors.Is(err, rule.ErrRuleNotFound):
		return errNotFound
	case errors.Is(err, rule.ErrConcurrentEdit):
		return errConcurrentEdit
	case errors.Is(err, rule.ErrPermissionDenied):
		return errPermissionDenied
	case errors.Is(err, rule.ErrNameRequired),
		errors.Is(err, rule.ErrInvalidType),
		errors.Is(err, rule.ErrInvalidPriority),
		errors.Is(err, rule.ErrNoConditions),
		errors.Is(err, rule.ErrInvalidCondition),
		errors.Is(err, rule.ErrInvalidOutcome):
		return pkgErrors.NewHTTPError(errInvalidRule.Code, err.Error(), http.StatusBadRequest)
	}
	return err
}
