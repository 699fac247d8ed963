package repository

import (
	"context"

	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
)

//go:generate mockery --name Repository
type Repository interface {
	// Create assigns ID, Seq and Version 1 and stores the first version snapshot.
	Create(ctx context.Context, opts CreateOptions) (model.Rule, error)
	// Update writes opts.Rule when the stored version equals opts.ExpectedVersion,
	// bumps the version and stores a snapshot.
	Update(ctx context.Context, opts UpdateOptions) (model.Rule, error)
	Detail(ctx context.Context, id string) (model.Rule, error)
	Get(ctx context.Context, opts GetOptions) ([]model.Rule, paginator.Paginator, error)
	// List returns matching rules ordered by priority, then creation order.
	List(ctx context.Context, opts ListOptions) ([]model.Rule, error)
	ListVersions(ctx context.Context, ruleID string) ([]model.RuleVersion, error)
	Count(ctx context.Context) (int64, error)
}
