package alert

import "time"

// EscalationInput describes an NDR that was escalated to operations.
type EscalationInput struct {
	NDRID         string
	Code          string
	Reason        string
	Priority      string
	RiskScore     int
	AttemptNumber int
	Status        string
	Actor         string
	Note          string
	EscalatedAt   time.Time
}

// SchedulerOverrunInput describes a scan run that was forcibly failed.
type SchedulerOverrunInput struct {
	RunID      string
	Instance   string
	StartedAt  time.Time
	DeadlineAt time.Time
	Evaluated  int
	Error      string
}

// ApprovalPendingInput describes a high-impact action waiting for a decision.
type ApprovalPendingInput struct {
	ActionID     string
	Kind         string
	NDRID        string
	NDRCode      string
	ProposedBy   string
	PendingCount int64
	ProposedAt   time.Time
}
