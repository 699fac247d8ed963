// Package memory holds orders and deliveries in process. It backs STORE_DRIVER=memory and tests.
package memory

import (
	"sync"

	"ndr-srv/internal/model"
	"ndr-srv/internal/shipment"
)

type deliveryRecord struct {
	delivery          model.Delivery
	signals           []model.Signal
	customerConfirmed bool
}

type implStore struct {
	mu         sync.RWMutex
	orders     map[string]model.Order
	deliveries map[string]deliveryRecord
}

var _ shipment.Store = &implStore{}

func New() *implStore {
	return &implStore{
		orders:     map[string]model.Order{},
		deliveries: map[string]deliveryRecord{},
	}
}
