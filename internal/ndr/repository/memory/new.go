// Package memory is an in-process NDR store used by tests and STORE_DRIVER=memory.
package memory

import (
	"sync"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr/repository"
)

type implRepository struct {
	mu          sync.RWMutex
	ndrs        map[string]model.NDR
	transitions map[string][]model.Transition
	seq         map[string]int // insertion order, breaks CreatedAt ties
	clock       func() time.Time
}

var _ repository.Repository = &implRepository{}

func New() *implRepository {
	return &implRepository{
		ndrs:        map[string]model.NDR{},
		transitions: map[string][]model.Transition{},
		seq:         map[string]int{},
		clock:       time.Now,
	}
}
