package ndr

import (
	"slices"
	"strings"
	"time"

	"ndr-srv/internal/model"
)

// RTOAttemptThreshold is the minimum delivery attempt count before return-to-origin.
const RTOAttemptThreshold = 3

var allowedTransitions = map[model.NDRStatus][]model.NDRStatus{
	model.NDRStatusOpen:               {model.NDRStatusActionRequested, model.NDRStatusResolved, model.NDRStatusRTO},
	model.NDRStatusActionRequested:    {model.NDRStatusReattemptScheduled, model.NDRStatusResolved, model.NDRStatusRTO},
	model.NDRStatusReattemptScheduled: {model.NDRStatusResolved, model.NDRStatusOpen},
	model.NDRStatusResolved:           {model.NDRStatusClosed},
	model.NDRStatusRTO:                {model.NDRStatusClosed},
}

// CanTransition reports whether the state graph has an edge from -> to.
func CanTransition(from, to model.NDRStatus) bool {
	return slices.Contains(allowedTransitions[from], to)
}

// CheckTransition validates moving n to status to. actionID is the approved
// action backing the move, required for RTO.
func CheckTransition(n model.NDR, to model.NDRStatus, actionID string) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	if !CanTransition(n.Status, to) {
		return &InvalidTransitionError{From: n.Status, To: to}
	}
	if to == model.NDRStatusRTO {
		if n.AttemptNumber < RTOAttemptThreshold {
			return ErrRTOThresholdNotMet
		}
		if actionID == "" {
			return ErrApprovalRequired
		}
	}
	return nil
}

// NewCode renders the human readable code NDR-<yymmdd>-<first 6 hex of id>.
func NewCode(id string, at time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(short) > 6 {
		short = short[:6]
	}
	return "NDR-" + at.UTC().Format("060102") + "-" + short
}
