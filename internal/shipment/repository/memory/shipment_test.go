package memory

import (
	"context"
	"testing"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOpenDeliveryAttempts(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	s.PutOrder(model.Order{ID: "o1", AddressQuality: model.AddressQualityPoor})
	s.PutDelivery(model.Delivery{ID: "d1", OrderID: "o1", Status: model.DeliveryStatusOutForDelivery})
	s.PutDelivery(model.Delivery{ID: "d2", OrderID: "o2", Status: model.DeliveryStatusOutForDelivery})

	require.NoError(t, s.RecordFailedAttempt("d1", now, model.SignalWrongAddress))

	got, err := s.ListOpenDeliveryAttempts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "d1", got[0].DeliveryID)
	assert.Equal(t, 1, got[0].AttemptCount)
	assert.Equal(t, model.AddressQualityPoor, got[0].AddressQuality)
	assert.True(t, got[0].HasSignal(model.SignalWrongAddress))

	require.NoError(t, s.MarkDelivered("d1", now.Add(time.Hour)))
	got, err = s.ListOpenDeliveryAttempts(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	c, err := s.GetDeliveryAttempt(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, c.Cleared())
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, shipment.ErrOrderNotFound)

	_, err = s.GetDelivery(ctx, "missing")
	assert.ErrorIs(t, err, shipment.ErrDeliveryNotFound)

	assert.ErrorIs(t, s.ConfirmCustomer("missing"), shipment.ErrDeliveryNotFound)
}
