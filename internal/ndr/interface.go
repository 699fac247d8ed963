package ndr

import (
	"context"

	"ndr-srv/internal/model"
)

// UseCase is the single authority over NDR status. Every status change goes
// through Transition and leaves an audit entry.
//
//go:generate mockery --name UseCase
type UseCase interface {
	Open(ctx context.Context, ip OpenInput) (model.NDR, error)
	Transition(ctx context.Context, ip TransitionInput) (model.NDR, error)
	ManualTransition(ctx context.Context, sc model.Scope, ip ManualTransitionInput) (model.NDR, error)
	// Close archives a RESOLVED or RTO record. Closing a CLOSED record is a no-op.
	Close(ctx context.Context, sc model.Scope, id string) (model.NDR, error)
	CloseBatch(ctx context.Context, ip CloseBatchInput) (CloseBatchOutput, error)
	Rescore(ctx context.Context, ip RescoreInput) (model.NDR, error)
	Escalate(ctx context.Context, ip EscalateInput) (model.NDR, error)

	Detail(ctx context.Context, sc model.Scope, id string) (model.NDR, error)
	Get(ctx context.Context, sc model.Scope, ip GetInput) (GetOutput, error)
	History(ctx context.Context, sc model.Scope, id string) ([]model.Transition, error)
	Stats(ctx context.Context, sc model.Scope) (model.NDRStats, error)

	// ListActive returns every non-terminal NDR.
	ListActive(ctx context.Context) ([]model.NDR, error)
	// FindByDelivery returns the most recent NDR of a delivery.
	FindByDelivery(ctx context.Context, deliveryID string) (model.NDR, error)
}

// PendingCanceller closes the approvals still waiting on an NDR that became terminal.
type PendingCanceller interface {
	CancelPending(ctx context.Context, ndrID, note string) (int, error)
}
