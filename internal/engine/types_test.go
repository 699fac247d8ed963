package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanResultAdd(t *testing.T) {
	var r ScanResult
	for _, o := range []Outcome{OutcomeCreated, OutcomeUpdated, OutcomeResolved, OutcomeUnchanged, OutcomeConflict, OutcomeSkipped, OutcomeFailed} {
		r.Add(o, 1)
	}
	assert.Equal(t, ScanResult{Evaluated: 5, Created: 1, Updated: 1, AutoResolved: 1, Failed: 1, Skipped: 2, Proposed: 7}, r)
}

func TestRuleEvaluationError(t *testing.T) {
	cause := errors.New("boom")
	err := &RuleEvaluationError{DeliveryID: "d-1", RuleID: "r-1", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "evaluate delivery d-1 rule r-1: boom", err.Error())
	assert.Equal(t, "evaluate delivery d-1: boom", (&RuleEvaluationError{DeliveryID: "d-1", Err: cause}).Error())
}
