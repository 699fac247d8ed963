package ndr

import (
	"errors"
	"testing"
	"time"

	"ndr-srv/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := map[model.NDRStatus][]model.NDRStatus{
		model.NDRStatusOpen:               {model.NDRStatusActionRequested, model.NDRStatusResolved, model.NDRStatusRTO},
		model.NDRStatusActionRequested:    {model.NDRStatusReattemptScheduled, model.NDRStatusResolved, model.NDRStatusRTO},
		model.NDRStatusReattemptScheduled: {model.NDRStatusResolved, model.NDRStatusOpen},
		model.NDRStatusResolved:           {model.NDRStatusClosed},
		model.NDRStatusRTO:                {model.NDRStatusClosed},
		model.NDRStatusClosed:             {},
	}

	for _, from := range model.NDRStatuses {
		for _, to := range model.NDRStatuses {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCheckTransition_TerminalNeverReopens(t *testing.T) {
	for _, from := range []model.NDRStatus{model.NDRStatusResolved, model.NDRStatusRTO, model.NDRStatusClosed} {
		for _, to := range model.ActiveNDRStatuses {
			err := CheckTransition(model.NDR{Status: from, AttemptNumber: 5}, to, "action-1")

			var ite *InvalidTransitionError
			assert.True(t, errors.As(err, &ite), "%s -> %s", from, to)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, from, ite.From)
			assert.Equal(t, to, ite.To)
		}
	}
}

func TestCheckTransition_RTO(t *testing.T) {
	tcs := map[string]struct {
		attempts int
		actionID string
		wantErr  error
	}{
		"below threshold":         {attempts: 2, actionID: "a-1", wantErr: ErrRTOThresholdNotMet},
		"threshold no approval":   {attempts: 3, wantErr: ErrApprovalRequired},
		"threshold with approval": {attempts: 3, actionID: "a-1"},
		"above threshold":         {attempts: 7, actionID: "a-1"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			err := CheckTransition(model.NDR{Status: model.NDRStatusActionRequested, AttemptNumber: tc.attempts}, model.NDRStatusRTO, tc.actionID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheckTransition_UnknownStatus(t *testing.T) {
	err := CheckTransition(model.NDR{Status: model.NDRStatusOpen}, "LOST", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestNewCode(t *testing.T) {
	at := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "NDR-260309-1F3A9C", NewCode("1f3a9c2e-0000-4000-8000-000000000000", at))
}
