package alert

import "context"

// UseCase sends operational alerts to the ops channel.
//
//go:generate mockery --name UseCase
type UseCase interface {
	DispatchEscalation(ctx context.Context, input EscalationInput) error
	DispatchSchedulerOverrun(ctx context.Context, input SchedulerOverrunInput) error
	DispatchApprovalPending(ctx context.Context, input ApprovalPendingInput) error
}
