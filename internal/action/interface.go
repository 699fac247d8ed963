package action

import (
	"context"

	"ndr-srv/internal/model"
)

// UseCase gates automated actions. Approval-required kinds only execute through Approve.
//
//go:generate mockery --name UseCase
type UseCase interface {
	Propose(ctx context.Context, ip ProposeInput) (ProposeOutput, error)
	Approve(ctx context.Context, sc model.Scope, ip DecideInput) (model.Action, error)
	Reject(ctx context.Context, sc model.Scope, ip DecideInput) (model.Action, error)
	Detail(ctx context.Context, sc model.Scope, id string) (model.Action, error)
	Get(ctx context.Context, sc model.Scope, ip GetInput) (GetOutput, error)
	PendingCount(ctx context.Context) (int64, error)
}
