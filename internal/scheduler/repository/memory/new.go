// Package memory keeps scheduler runs in process. The lock only spans one process.
package memory

import (
	"sync"

	"ndr-srv/internal/model"
	"ndr-srv/internal/scheduler/repository"
)

type implRepository struct {
	mu   sync.RWMutex
	runs []model.SchedulerRun
	seq  int
}

var _ repository.Repository = &implRepository{}

func New() *implRepository {
	return &implRepository{}
}
