package usecase

import (
	"time"

	"ndr-srv/internal/action"
	"ndr-srv/internal/engine"
	"ndr-srv/internal/metrics"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/outreach"
	"ndr-srv/internal/rule"
	"ndr-srv/internal/shipment"
	pkgLog "ndr-srv/pkg/log"
)

const (
	defaultWorkers = 8
	engineActor    = "engine"
)

type Options struct {
	// Workers bounds parallel context evaluation within one scan.
	Workers int
	Metrics *metrics.Metrics
}

type usecase struct {
	l          pkgLog.Logger
	rules      rule.UseCase
	ndrUC      ndr.UseCase
	actionUC   action.UseCase
	outreachUC outreach.UseCase
	store      shipment.Store
	workers    int
	metrics    *metrics.Metrics
	clock      func() time.Time
}

func New(l pkgLog.Logger, rules rule.UseCase, ndrUC ndr.UseCase, actionUC action.UseCase, outreachUC outreach.UseCase, store shipment.Store, opts Options) engine.UseCase {
	uc := &usecase{
		l:          l,
		rules:      rules,
		ndrUC:      ndrUC,
		actionUC:   actionUC,
		outreachUC: outreachUC,
		store:      store,
		workers:    opts.Workers,
		metrics:    opts.Metrics,
		clock:      time.Now,
	}
	if uc.workers <= 0 {
		uc.workers = defaultWorkers
	}
	return uc
}
