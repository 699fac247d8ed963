// Package memory is an in-process rule store used by tests and STORE_DRIVER=memory.
package memory

import (
	"sync"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/rule/repository"
)

type implRepository struct {
	mu       sync.RWMutex
	rules    map[string]model.Rule
	versions map[string][]model.RuleVersion
	seq      int64
	clock    func() time.Time
}

var _ repository.Repository = &implRepository{}

func New() *implRepository {
	return &implRepository{
		rules:    map[string]model.Rule{},
		versions: map[string][]model.RuleVersion{},
		clock:    time.Now,
	}
}
