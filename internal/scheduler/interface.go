package scheduler

import (
	"context"

	"ndr-srv/internal/model"
)

// UseCase drives periodic, non-overlapping scans and exposes their run records.
//
//go:generate mockery --name UseCase
type UseCase interface {
	// Tick starts one scan unless another run is in progress anywhere, in which
	// case it returns Skipped without touching the engine.
	Tick(ctx context.Context) (TickOutput, error)
	// Run ticks immediately and then on every interval until ctx is done.
	Run(ctx context.Context) error

	Latest(ctx context.Context, sc model.Scope) (model.SchedulerRun, error)
	Detail(ctx context.Context, sc model.Scope, id string) (model.SchedulerRun, error)
	Get(ctx context.Context, sc model.Scope, ip GetInput) (GetOutput, error)
}
