package usecase

import (
	"time"

	"ndr-srv/internal/alert"
	"ndr-srv/internal/archive"
	"ndr-srv/internal/event"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/ndr/repository"
	pkgLog "ndr-srv/pkg/log"
	pkgRedis "ndr-srv/pkg/redis"
)

const (
	statsCacheKey   = "ndr:stats"
	defaultStatsTTL = 30 * time.Second
	closeBatchLimit = 500
)

// Options carries the optional collaborators. Nil fields fall back to no-ops.
type Options struct {
	Publisher event.Publisher
	Archiver  archive.Archiver
	Alert     alert.UseCase
	Cache     pkgRedis.IRedis
	StatsTTL  time.Duration
	Pending   ndr.PendingCanceller
}

type usecase struct {
	l        pkgLog.Logger
	repo     repository.Repository
	pub      event.Publisher
	archiver archive.Archiver
	alert    alert.UseCase
	cache    pkgRedis.IRedis
	statsTTL time.Duration
	pending  ndr.PendingCanceller
	clock    func() time.Time
}

func New(l pkgLog.Logger, repo repository.Repository, opts Options) ndr.UseCase {
	uc := &usecase{
		l:        l,
		repo:     repo,
		pub:      opts.Publisher,
		archiver: opts.Archiver,
		alert:    opts.Alert,
		cache:    opts.Cache,
		statsTTL: opts.StatsTTL,
		pending:  opts.Pending,
		clock:    time.Now,
	}
	if uc.pub == nil {
		uc.pub = event.Nop()
	}
	if uc.archiver == nil {
		uc.archiver = archive.Nop()
	}
	if uc.statsTTL <= 0 {
		uc.statsTTL = defaultStatsTTL
	}
	return uc
}
