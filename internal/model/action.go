package model

import "time"

type ActionKind string

const (
	ActionReattempt ActionKind = "REATTEMPT"
	ActionEscalate  ActionKind = "ESCALATE"
	ActionRTO       ActionKind = "RTO"
)

var ActionKinds = []ActionKind{ActionReattempt, ActionEscalate, ActionRTO}

func (k ActionKind) IsValid() bool {
	for _, v := range ActionKinds {
		if k == v {
			return true
		}
	}
	return false
}

type ApprovalState string

const (
	ApprovalPending      ApprovalState = "PENDING"
	ApprovalApproved     ApprovalState = "APPROVED"
	ApprovalRejected     ApprovalState = "REJECTED"
	ApprovalAutoApproved ApprovalState = "AUTO_APPROVED"
)

type ExecutionState string

const (
	ExecutionNotExecuted ExecutionState = "NOT_EXECUTED"
	ExecutionExecuted    ExecutionState = "EXECUTED"
	ExecutionFailed      ExecutionState = "FAILED"
)

// ActionConfig is the payload carried by a proposed action.
type ActionConfig struct {
	RuleID        string     `json:"rule_id,omitempty"`
	ReattemptAt   *time.Time `json:"reattempt_at,omitempty"`
	AttemptNumber int        `json:"attempt_number,omitempty"`
	Note          string     `json:"note,omitempty"`
}

// Action is a system or operator proposed automated action on an NDR.
type Action struct {
	ID             string         `json:"id"`
	NDRID          string         `json:"ndr_id"`
	Kind           ActionKind     `json:"kind"`
	Config         ActionConfig   `json:"config"`
	ProposedBy     Actor          `json:"proposed_by"`
	ApprovalState  ApprovalState  `json:"approval_state"`
	ExecutionState ExecutionState `json:"execution_state"`
	DecidedBy      string         `json:"decided_by,omitempty"`
	DecisionNote   string         `json:"decision_note,omitempty"`
	DecidedAt      *time.Time     `json:"decided_at,omitempty"`
	ExecutedAt     *time.Time     `json:"executed_at,omitempty"`
	ExecutionError string         `json:"execution_error,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
