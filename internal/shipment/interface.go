package shipment

import (
	"context"

	"ndr-srv/internal/model"
)

// Store is the read-only view of the order and shipment tables owned by other services.
//
//go:generate mockery --name Store
type Store interface {
	// ListOpenDeliveryAttempts returns every delivery whose latest attempt failed.
	ListOpenDeliveryAttempts(ctx context.Context) ([]model.DeliveryAttemptContext, error)
	// GetDeliveryAttempt returns the attempt context of one delivery regardless of its status.
	GetDeliveryAttempt(ctx context.Context, deliveryID string) (model.DeliveryAttemptContext, error)
	GetOrder(ctx context.Context, id string) (model.Order, error)
	GetDelivery(ctx context.Context, id string) (model.Delivery, error)
}
