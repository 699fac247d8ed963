package model

import "time"

type RuleType string

const (
	// RuleTypeClassification rules are exclusive: the first match classifies.
	RuleTypeClassification RuleType = "CLASSIFICATION"
	// RuleTypeAction rules are cumulative: every match proposes its action.
	RuleTypeAction RuleType = "ACTION"
)

type ConditionKind string

const (
	ConditionAttemptCount         ConditionKind = "attempt_count"
	ConditionSignalMatch          ConditionKind = "signal_match"
	ConditionTimeSinceLastAttempt ConditionKind = "time_since_last_attempt"
)

type CompareOp string

const (
	CompareGTE CompareOp = "gte"
	CompareLTE CompareOp = "lte"
	CompareEQ  CompareOp = "eq"
)

// Condition is a tagged variant. Exactly one payload matching Kind is set.
type Condition struct {
	Kind                 ConditionKind                  `json:"kind"`
	AttemptCount         *AttemptCountCondition         `json:"attempt_count,omitempty"`
	SignalMatch          *SignalMatchCondition          `json:"signal_match,omitempty"`
	TimeSinceLastAttempt *TimeSinceLastAttemptCondition `json:"time_since_last_attempt,omitempty"`
}

type AttemptCountCondition struct {
	Op    CompareOp `json:"op"`
	Value int       `json:"value"`
}

// SignalMatchCondition matches when any of Signals is present.
type SignalMatchCondition struct {
	Signals []Signal `json:"signals"`
}

// TimeSinceLastAttemptCondition bounds the hours since the last attempt. MaxHours 0 means unbounded.
type TimeSinceLastAttemptCondition struct {
	MinHours int `json:"min_hours"`
	MaxHours int `json:"max_hours,omitempty"`
}

// RuleOutcome is Reason/Confidence for classification rules and Action for action rules.
type RuleOutcome struct {
	Reason     Reason     `json:"reason,omitempty"`
	Confidence float64    `json:"confidence,omitempty"`
	Action     ActionKind `json:"action,omitempty"`
}

type Rule struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Type        RuleType    `json:"type"`
	Priority    int         `json:"priority"`
	Seq         int64       `json:"seq"`
	Active      bool        `json:"active"`
	Conditions  []Condition `json:"conditions"`
	Outcome     RuleOutcome `json:"outcome"`
	Version     int         `json:"version"`
	CreatedBy   string      `json:"created_by"`
	UpdatedBy   string      `json:"updated_by"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// RuleVersion is a snapshot taken whenever a rule changes.
type RuleVersion struct {
	RuleID    string    `json:"rule_id"`
	Version   int       `json:"version"`
	Snapshot  Rule      `json:"snapshot"`
	ChangedBy string    `json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}
