// Package memory is an in-process action store used by tests and STORE_DRIVER=memory.
package memory

import (
	"sync"
	"time"

	"ndr-srv/internal/action/repository"
	"ndr-srv/internal/model"
)

type implRepository struct {
	mu      sync.RWMutex
	actions map[string]model.Action
	clock   func() time.Time
}

var _ repository.Repository = &implRepository{}

func New() *implRepository {
	return &implRepository{
		actions: map[string]model.Action{},
		clock:   time.Now,
	}
}
