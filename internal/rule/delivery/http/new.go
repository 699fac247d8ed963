package http

import (
	"ndr-srv/internal/rule"
	"ndr-srv/pkg/discord"
	pkgLog "ndr-srv/pkg/log"
)

type handler struct {
	l       pkgLog.Logger
	uc      rule.UseCase
	discord discord.IDiscord
}

func New(l pkgLog.Logger, uc rule.UseCase, d discord.IDiscord) handler {
	return handler{
		l:       l,
		uc:      uc,
		discord: d,
	}
}
