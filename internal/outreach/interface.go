package outreach

import (
	"context"

	"ndr-srv/internal/model"
)

// UseCase contacts customers about an NDR and records what they answered.
//
//go:generate mockery --name UseCase
type UseCase interface {
	// Send records a pending attempt, calls the channel transport and stores the
	// outcome. A transport failure is returned as *SendFailureError together with the recorded attempt.
	Send(ctx context.Context, ip SendInput) (SendOutput, error)
	// ManualSend is Send on behalf of an operator.
	ManualSend(ctx context.Context, sc model.Scope, ip SendInput) (SendOutput, error)
	RecordResponse(ctx context.Context, sc model.Scope, ip RecordResponseInput) (RecordResponseOutput, error)
	ListAttempts(ctx context.Context, sc model.Scope, ndrID string) ([]model.OutreachAttempt, error)
	ListResponses(ctx context.Context, sc model.Scope, ndrID string) ([]model.CustomerResponse, error)
	// Stats summarises contact history for risk scoring.
	Stats(ctx context.Context, ndrID string) (model.OutreachStats, error)
}

// Transport delivers one message on one channel.
//
//go:generate mockery --name Transport
type Transport interface {
	SendMessage(ctx context.Context, channel model.Channel, recipient, content string) (TransportResult, error)
}

// Renderer builds the default message for an NDR reason.
//
//go:generate mockery --name Renderer
type Renderer interface {
	Render(reason model.Reason, data TemplateData) (string, error)
}
