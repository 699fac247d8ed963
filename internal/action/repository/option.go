package repository

import (
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
)

type Filter struct {
	NDRID         string
	Kind          model.ActionKind
	ApprovalState model.ApprovalState
}

type CreateOptions struct {
	Action model.Action
}

type DecideOptions struct {
	ID        string
	State     model.ApprovalState
	DecidedBy string
	Note      string
	DecidedAt time.Time
}

type CancelPendingOptions struct {
	NDRID     string
	DecidedBy string
	Note      string
	At        time.Time
}

type MarkExecutedOptions struct {
	ID    string
	State model.ExecutionState
	Error string
	At    time.Time
}

type GetOptions struct {
	Filter        Filter
	PaginateQuery paginator.PaginateQuery
}
