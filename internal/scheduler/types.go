package scheduler

import (
	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
)

type TickOutput struct {
	Run model.SchedulerRun
	// Skipped is set when another run held the lock. Run is then the blocking run.
	Skipped bool
}

type GetInput struct {
	Status        model.RunStatus
	PaginateQuery paginator.PaginateQuery
}

type GetOutput struct {
	Runs      []model.SchedulerRun
	Paginator paginator.Paginator
}
