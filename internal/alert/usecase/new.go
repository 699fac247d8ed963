package usecase

import (
	"time"

	"ndr-srv/internal/alert"
	"ndr-srv/pkg/discord"
	"ndr-srv/pkg/log"
)

type implUseCase struct {
	logger  log.Logger
	discord discord.IDiscord
	clock   func() time.Time
}

// New returns an alert dispatcher. A nil discord client turns every dispatch into a logged no-op.
func New(logger log.Logger, discord discord.IDiscord) alert.UseCase {
	return &implUseCase{
		logger:  logger,
		discord: discord,
		clock:   time.Now,
	}
}
