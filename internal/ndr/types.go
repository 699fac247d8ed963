package ndr

import (
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/risk"
	"ndr-srv/pkg/paginator"
)

type OpenInput struct {
	DeliveryID    string
	OrderID       string
	Reason        model.Reason
	Confidence    float64
	RuleID        string
	AttemptNumber int
	Assessment    risk.Assessment
	Actor         model.Actor
}

// TransitionInput moves an NDR. A non-zero ExpectedVersion rejects the write
// when the record changed since the caller read it.
type TransitionInput struct {
	ID              string
	To              model.NDRStatus
	Actor           model.Actor
	ActionID        string
	Note            string
	ExpectedVersion int
}

type ManualTransitionInput struct {
	ID              string
	To              model.NDRStatus
	Note            string
	ExpectedVersion int
}

type RescoreInput struct {
	ID              string
	AttemptNumber   int
	Assessment      risk.Assessment
	ExpectedVersion int
}

type EscalateInput struct {
	ID       string
	Actor    model.Actor
	ActionID string
	Note     string
}

type CloseBatchInput struct {
	// OlderThan is the grace period a RESOLVED or RTO record spends before archival.
	OlderThan time.Duration
	Limit     int
}

type CloseBatchOutput struct {
	Closed int
	Failed int
}

type Filter struct {
	Statuses   []model.NDRStatus
	Priorities []model.Priority
	Reasons    []model.Reason
	DeliveryID string
	Escalated  *bool
}

type GetInput struct {
	Filter        Filter
	PaginateQuery paginator.PaginateQuery
}

type GetOutput struct {
	NDRs      []model.NDR
	Paginator paginator.Paginator
}
