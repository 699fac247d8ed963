package repository

import (
	"context"

	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
)

//go:generate mockery --name Repository
type Repository interface {
	// Create stores a new NDR with Version 1 together with its first audit entry.
	Create(ctx context.Context, opts CreateOptions) (model.NDR, error)
	// Update writes opts.NDR when the stored version equals opts.ExpectedVersion and
	// appends opts.Transition in the same unit of work.
	Update(ctx context.Context, opts UpdateOptions) (model.NDR, error)
	Detail(ctx context.Context, id string) (model.NDR, error)
	LatestByDelivery(ctx context.Context, deliveryID string) (model.NDR, error)
	Get(ctx context.Context, opts GetOptions) ([]model.NDR, paginator.Paginator, error)
	List(ctx context.Context, opts ListOptions) ([]model.NDR, error)
	ListTransitions(ctx context.Context, ndrID string) ([]model.Transition, error)
	Stats(ctx context.Context) (model.NDRStats, error)
}
