package repository

import (
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
)

type Filter struct {
	IDs           []string
	Statuses      []model.NDRStatus
	Priorities    []model.Priority
	Reasons       []model.Reason
	DeliveryID    string
	Escalated     *bool
	UpdatedBefore *time.Time
}

type CreateOptions struct {
	NDR        model.NDR
	Transition model.Transition
}

type UpdateOptions struct {
	NDR             model.NDR
	ExpectedVersion int
	// Transition is nil for writes that leave the status unchanged.
	Transition *model.Transition
}

type ListOptions struct {
	Filter Filter
	Limit  int
}

type GetOptions struct {
	Filter        Filter
	PaginateQuery paginator.PaginateQuery
}
