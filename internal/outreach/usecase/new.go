package usecase

import (
	"time"

	"ndr-srv/internal/action"
	"ndr-srv/internal/metrics"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/outreach"
	"ndr-srv/internal/outreach/repository"
	"ndr-srv/internal/shipment"
	"ndr-srv/pkg/encrypter"
	pkgLog "ndr-srv/pkg/log"
)

const defaultProviderTimeout = 10 * time.Second

type Options struct {
	Transport outreach.Transport
	Renderer  outreach.Renderer
	// Encrypter seals recipients at rest. Nil stores them as given.
	Encrypter       encrypter.Encrypter
	ProviderTimeout time.Duration
	Metrics         *metrics.Metrics
}

type usecase struct {
	l               pkgLog.Logger
	repo            repository.Repository
	ndrUC           ndr.UseCase
	actionUC        action.UseCase
	store           shipment.Store
	transport       outreach.Transport
	renderer        outreach.Renderer
	enc             encrypter.Encrypter
	providerTimeout time.Duration
	metrics         *metrics.Metrics
	clock           func() time.Time
}

func New(l pkgLog.Logger, repo repository.Repository, ndrUC ndr.UseCase, actionUC action.UseCase, store shipment.Store, opts Options) outreach.UseCase {
	uc := &usecase{
		l:               l,
		repo:            repo,
		ndrUC:           ndrUC,
		actionUC:        actionUC,
		store:           store,
		transport:       opts.Transport,
		renderer:        opts.Renderer,
		enc:             opts.Encrypter,
		providerTimeout: opts.ProviderTimeout,
		metrics:         opts.Metrics,
		clock:           time.Now,
	}
	if uc.providerTimeout <= 0 {
		uc.providerTimeout = defaultProviderTimeout
	}
	return uc
}
