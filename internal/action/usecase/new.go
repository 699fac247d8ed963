package usecase

import (
	"time"

	"ndr-srv/internal/action"
	"ndr-srv/internal/action/repository"
	"ndr-srv/internal/alert"
	"ndr-srv/internal/event"
	"ndr-srv/internal/ndr"
	pkgLog "ndr-srv/pkg/log"
)

type usecase struct {
	l      pkgLog.Logger
	repo   repository.Repository
	ndrUC  ndr.UseCase
	policy action.Policy
	pub    event.Publisher
	alert  alert.UseCase
	clock  func() time.Time
}

// New wires the gate. pub and al may be nil.
func New(l pkgLog.Logger, repo repository.Repository, ndrUC ndr.UseCase, policy action.Policy, pub event.Publisher, al alert.UseCase) action.UseCase {
	if pub == nil {
		pub = event.Nop()
	}
	return &usecase{
		l:      l,
		repo:   repo,
		ndrUC:  ndrUC,
		policy: policy,
		pub:    pub,
		alert:  al,
		clock:  time.Now,
	}
}
