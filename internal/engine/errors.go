package engine

import (
	"errors"
	"fmt"
)

var ErrDeliveryNotFound = errors.New("delivery not found")

// RuleEvaluationError is the failure of one context. It never aborts a scan.
type RuleEvaluationError struct {
	DeliveryID string
	RuleID     string
	Err        error
}

func (e *RuleEvaluationError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("evaluate delivery %s rule %s: %v", e.DeliveryID, e.RuleID, e.Err)
	}
	return fmt.Sprintf("evaluate delivery %s: %v", e.DeliveryID, e.Err)
}

func (e *RuleEvaluationError) Unwrap() error {
	return e.Err
}
