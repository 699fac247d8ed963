package rule

import (
	"context"

	"ndr-srv/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	Create(ctx context.Context, sc model.Scope, ip CreateInput) (model.Rule, error)
	Update(ctx context.Context, sc model.Scope, ip UpdateInput) (model.Rule, error)
	Activate(ctx context.Context, sc model.Scope, id string) (model.Rule, error)
	Deactivate(ctx context.Context, sc model.Scope, id string) (model.Rule, error)
	Detail(ctx context.Context, sc model.Scope, id string) (model.Rule, error)
	Get(ctx context.Context, sc model.Scope, ip GetInput) (GetOutput, error)
	History(ctx context.Context, sc model.Scope, id string) ([]model.RuleVersion, error)

	// ListActive returns the active rule snapshot in evaluation order.
	ListActive(ctx context.Context) ([]model.Rule, error)
	// SeedDefaults inserts DefaultRules when the store is empty and returns how many were added.
	SeedDefaults(ctx context.Context) (int, error)
}
