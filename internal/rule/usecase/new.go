package usecase

import (
	"time"

	"ndr-srv/internal/rule"
	"ndr-srv/internal/rule/repository"
	pkgLog "ndr-srv/pkg/log"
)

type usecase struct {
	l     pkgLog.Logger
	repo  repository.Repository
	clock func() time.Time
}

func New(l pkgLog.Logger, repo repository.Repository) rule.UseCase {
	return &usecase{
		l:     l,
		repo:  repo,
		clock: time.Now,
	}
}
