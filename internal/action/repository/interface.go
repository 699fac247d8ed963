package repository

import (
	"context"

	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
)

//go:generate mockery --name Repository
type Repository interface {
	Create(ctx context.Context, opts CreateOptions) (model.Action, error)
	// Decide moves a PENDING action to opts.State. Any other current state is ErrConflict.
	Decide(ctx context.Context, opts DecideOptions) (model.Action, error)
	MarkExecuted(ctx context.Context, opts MarkExecutedOptions) (model.Action, error)
	Detail(ctx context.Context, id string) (model.Action, error)
	FindPending(ctx context.Context, ndrID string, kind model.ActionKind) (model.Action, error)
	Get(ctx context.Context, opts GetOptions) ([]model.Action, paginator.Paginator, error)
	CountPending(ctx context.Context) (int64, error)
	// CancelPending rejects every PENDING action of an NDR and returns them.
	CancelPending(ctx context.Context, opts CancelPendingOptions) ([]model.Action, error)
}
