// Package memory is an in-process outreach store used by tests and STORE_DRIVER=memory.
package memory

import (
	"sync"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/outreach/repository"
)

type implRepository struct {
	mu        sync.RWMutex
	attempts  map[string][]model.OutreachAttempt
	responses map[string][]model.CustomerResponse
	clock     func() time.Time
}

var _ repository.Repository = &implRepository{}

func New() *implRepository {
	return &implRepository{
		attempts:  map[string][]model.OutreachAttempt{},
		responses: map[string][]model.CustomerResponse{},
		clock:     time.Now,
	}
}
