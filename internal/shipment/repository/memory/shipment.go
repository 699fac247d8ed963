package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/shipment"
)

func (s *implStore) ListOpenDeliveryAttempts(ctx context.Context) ([]model.DeliveryAttemptContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]model.DeliveryAttemptContext, 0)
	for id, rec := range s.deliveries {
		if rec.delivery.Status != model.DeliveryStatusFailed || rec.delivery.AttemptCount == 0 {
			continue
		}
		res = append(res, s.attemptContext(id, rec))
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].LastAttemptAt.Equal(res[j].LastAttemptAt) {
			return res[i].LastAttemptAt.Before(res[j].LastAttemptAt)
		}
		return res[i].DeliveryID < res[j].DeliveryID
	})
	return res, nil
}

func (s *implStore) GetDeliveryAttempt(ctx context.Context, deliveryID string) (model.DeliveryAttemptContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.deliveries[deliveryID]
	if !ok {
		return model.DeliveryAttemptContext{}, shipment.ErrDeliveryNotFound
	}
	return s.attemptContext(deliveryID, rec), nil
}

func (s *implStore) GetOrder(ctx context.Context, id string) (model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, shipment.ErrOrderNotFound
	}
	return o, nil
}

func (s *implStore) GetDelivery(ctx context.Context, id string) (model.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.deliveries[id]
	if !ok {
		return model.Delivery{}, shipment.ErrDeliveryNotFound
	}
	return rec.delivery, nil
}

// PutOrder inserts or replaces an order.
func (s *implStore) PutOrder(o model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

// PutDelivery inserts or replaces a delivery together with its current signals.
func (s *implStore) PutDelivery(d model.Delivery, signals ...model.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries[d.ID] = deliveryRecord{delivery: d, signals: slices.Clone(signals)}
}

// RecordFailedAttempt counts one more failed attempt and replaces the signals.
func (s *implStore) RecordFailedAttempt(deliveryID string, at time.Time, signals ...model.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.deliveries[deliveryID]
	if !ok {
		return shipment.ErrDeliveryNotFound
	}
	rec.delivery.Status = model.DeliveryStatusFailed
	rec.delivery.AttemptCount++
	rec.delivery.LastAttemptAt = &at
	rec.delivery.UpdatedAt = at
	rec.signals = slices.Clone(signals)
	s.deliveries[deliveryID] = rec
	return nil
}

func (s *implStore) MarkDelivered(deliveryID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.deliveries[deliveryID]
	if !ok {
		return shipment.ErrDeliveryNotFound
	}
	rec.delivery.Status = model.DeliveryStatusDelivered
	rec.delivery.UpdatedAt = at
	s.deliveries[deliveryID] = rec
	return nil
}

func (s *implStore) ConfirmCustomer(deliveryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.deliveries[deliveryID]
	if !ok {
		return shipment.ErrDeliveryNotFound
	}
	rec.customerConfirmed = true
	s.deliveries[deliveryID] = rec
	return nil
}

func (s *implStore) attemptContext(id string, rec deliveryRecord) model.DeliveryAttemptContext {
	aq := model.AddressQualityUnverified
	if o, ok := s.orders[rec.delivery.OrderID]; ok && o.AddressQuality != "" {
		aq = o.AddressQuality
	}
	var last time.Time
	if rec.delivery.LastAttemptAt != nil {
		last = *rec.delivery.LastAttemptAt
	}
	return model.DeliveryAttemptContext{
		DeliveryID:        id,
		OrderID:           rec.delivery.OrderID,
		Status:            rec.delivery.Status,
		AttemptCount:      rec.delivery.AttemptCount,
		LastAttemptAt:     last,
		Signals:           slices.Clone(rec.signals),
		AddressQuality:    aq,
		CustomerConfirmed: rec.customerConfirmed,
	}
}
