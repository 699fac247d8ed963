package repository

import (
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
)

type BeginOptions struct {
	Instance   string
	StartedAt  time.Time
	DeadlineAt time.Time
}

type FinishOptions struct {
	ID         string
	Status     model.RunStatus
	FinishedAt time.Time
	Counters   Counters
	Error      string
}

type Counters struct {
	RulesExecuted int
	Evaluated     int
	Created       int
	Updated       int
	AutoResolved  int
	Failed        int
	Skipped       int
}

type GetOptions struct {
	Status        model.RunStatus
	PaginateQuery paginator.PaginateQuery
}
