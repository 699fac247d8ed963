package model

import "time"

type NDRStatus string

const (
	NDRStatusOpen               NDRStatus = "OPEN"
	NDRStatusActionRequested    NDRStatus = "ACTION_REQUESTED"
	NDRStatusReattemptScheduled NDRStatus = "REATTEMPT_SCHEDULED"
	NDRStatusResolved           NDRStatus = "RESOLVED"
	NDRStatusRTO                NDRStatus = "RTO"
	NDRStatusClosed             NDRStatus = "CLOSED"
)

// NDRStatuses lists every status in lifecycle order.
var NDRStatuses = []NDRStatus{
	NDRStatusOpen,
	NDRStatusActionRequested,
	NDRStatusReattemptScheduled,
	NDRStatusResolved,
	NDRStatusRTO,
	NDRStatusClosed,
}

// ActiveNDRStatuses are the statuses still eligible for scanning and outreach.
var ActiveNDRStatuses = []NDRStatus{
	NDRStatusOpen,
	NDRStatusActionRequested,
	NDRStatusReattemptScheduled,
}

func (s NDRStatus) IsValid() bool {
	for _, v := range NDRStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal is true for RESOLVED, RTO and CLOSED.
func (s NDRStatus) IsTerminal() bool {
	return s == NDRStatusResolved || s == NDRStatusRTO || s == NDRStatusClosed
}

type Reason string

const (
	ReasonCustomerUnavailable Reason = "CUSTOMER_UNAVAILABLE"
	ReasonWrongAddress        Reason = "WRONG_ADDRESS"
	ReasonPhoneUnreachable    Reason = "PHONE_UNREACHABLE"
	ReasonCustomerRefused     Reason = "CUSTOMER_REFUSED"
	ReasonCODNotReady         Reason = "COD_NOT_READY"
	ReasonRescheduleRequested Reason = "RESCHEDULE_REQUESTED"
	ReasonOther               Reason = "OTHER"
)

var Reasons = []Reason{
	ReasonCustomerUnavailable,
	ReasonWrongAddress,
	ReasonPhoneUnreachable,
	ReasonCustomerRefused,
	ReasonCODNotReady,
	ReasonRescheduleRequested,
	ReasonOther,
}

func (r Reason) IsValid() bool {
	for _, v := range Reasons {
		if r == v {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities, higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// NDR is one failed-delivery exception tied to a single delivery.
type NDR struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	DeliveryID string `json:"delivery_id"`
	OrderID    string `json:"order_id"`

	Reason     Reason  `json:"reason"`
	Confidence float64 `json:"confidence"`
	RuleID     string  `json:"rule_id,omitempty"`

	RiskScore int      `json:"risk_score"`
	Priority  Priority `json:"priority"`

	Status        NDRStatus  `json:"status"`
	AttemptNumber int        `json:"attempt_number"`
	Escalated     bool       `json:"escalated"`
	EscalatedAt   *time.Time `json:"escalated_at,omitempty"`

	// Version guards concurrent writers. Every successful write increments it.
	Version int `json:"version"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

type ActorType string

const (
	ActorSystem   ActorType = "SYSTEM"
	ActorRule     ActorType = "RULE"
	ActorOperator ActorType = "OPERATOR"
)

// Actor identifies who caused a change.
type Actor struct {
	Type ActorType `json:"type"`
	ID   string    `json:"id"`
}

func SystemActor(component string) Actor { return Actor{Type: ActorSystem, ID: component} }
func RuleActor(ruleID string) Actor { return Actor{Type: ActorRule, ID: ruleID} }
func OperatorActor(userID string) Actor { return Actor{Type: ActorOperator, ID: userID} }

// Transition is one audit entry in an NDR's status history.
type Transition struct {
	ID        string    `json:"id"`
	NDRID     string    `json:"ndr_id"`
	From      NDRStatus `json:"from"`
	To        NDRStatus `json:"to"`
	Actor     Actor     `json:"actor"`
	ActionID  string    `json:"action_id,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NDRStats is the dashboard projection of NDR counts.
type NDRStats struct {
	Total      int               `json:"total"`
	Active     int               `json:"active"`
	Escalated  int               `json:"escalated"`
	ByStatus   map[NDRStatus]int `json:"by_status"`
	ByPriority map[Priority]int  `json:"by_priority"`
	ByReason   map[Reason]int    `json:"by_reason"`
}

func NewNDRStats() NDRStats {
	return NDRStats{
		ByStatus:   map[NDRStatus]int{},
		ByPriority: map[Priority]int{},
		ByReason:   map[Reason]int{},
	}
}
