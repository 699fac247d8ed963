package model

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// SchedulerRun is the persisted record of one scan. At most one is running at a time.
type SchedulerRun struct {
	ID            string     `json:"id"`
	Status        RunStatus  `json:"status"`
	Instance      string     `json:"instance"`
	StartedAt     time.Time  `json:"started_at"`
	DeadlineAt    time.Time  `json:"deadline_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	RulesExecuted int        `json:"rules_executed"`
	Evaluated     int        `json:"evaluated"`
	Created       int        `json:"created"`
	Updated       int        `json:"updated"`
	AutoResolved  int        `json:"auto_resolved"`
	Failed        int        `json:"failed"`
	Skipped       int        `json:"skipped"`
	Error         string     `json:"error,omitempty"`
}
