package repository

import (
	"context"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
)

//go:generate mockery --name Repository
type Repository interface {
	// Begin stores a running run. It fails with ErrConflict while any other run is running.
	Begin(ctx context.Context, opts BeginOptions) (model.SchedulerRun, error)
	// Finish records the outcome of a running run.
	Finish(ctx context.Context, opts FinishOptions) (model.SchedulerRun, error)
	// ReapExpired fails every running run whose deadline is before now and returns them.
	ReapExpired(ctx context.Context, now time.Time, reason string) ([]model.SchedulerRun, error)
	// Running returns the run currently holding the lock.
	Running(ctx context.Context) (model.SchedulerRun, error)
	Latest(ctx context.Context) (model.SchedulerRun, error)
	Detail(ctx context.Context, id string) (model.SchedulerRun, error)
	Get(ctx context.Context, opts GetOptions) ([]model.SchedulerRun, paginator.Paginator, error)
}
