package repository

import (
	"context"

	"ndr-srv/internal/model"
)

//go:generate mockery --name Repository
type Repository interface {
	// CreateAttempt allocates the next attempt number of the NDR and stores a
	// PENDING attempt in one atomic step.
	CreateAttempt(ctx context.Context, opts CreateAttemptOptions) (model.OutreachAttempt, error)
	// CompleteAttempt sets the final outcome of a PENDING attempt.
	CompleteAttempt(ctx context.Context, opts CompleteAttemptOptions) (model.OutreachAttempt, error)
	ListAttempts(ctx context.Context, ndrID string) ([]model.OutreachAttempt, error)
	CreateResponse(ctx context.Context, opts CreateResponseOptions) (model.CustomerResponse, error)
	ListResponses(ctx context.Context, ndrID string) ([]model.CustomerResponse, error)
	Stats(ctx context.Context, ndrID string) (model.OutreachStats, error)
}
