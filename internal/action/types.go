package action

import (
	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
)

type ProposeInput struct {
	NDRID      string
	Kind       model.ActionKind
	Config     model.ActionConfig
	ProposedBy model.Actor
}

type Outcome string

const (
	OutcomeExecuted Outcome = "executed"
	OutcomePending  Outcome = "pending"
)

type ProposeOutput struct {
	Action  model.Action
	Outcome Outcome
	// Duplicate is set when an identical pending action already existed.
	Duplicate bool
}

type DecideInput struct {
	ID   string
	Note string
}

type Filter struct {
	NDRID         string
	Kind          model.ActionKind
	ApprovalState model.ApprovalState
}

type GetInput struct {
	Filter        Filter
	PaginateQuery paginator.PaginateQuery
}

type GetOutput struct {
	Actions   []model.Action
	Paginator paginator.Paginator
}
