package http

import (
	"ndr-srv/internal/action"
	"ndr-srv/internal/ndr"
	"ndr-srv/pkg/discord"
	pkgLog "ndr-srv/pkg/log"
)

type handler struct {
	l        pkgLog.Logger
	uc       ndr.UseCase
	actionUC action.UseCase
	discord  discord.IDiscord
}

// New wires the NDR handlers. Manual RTO requests are handed to actionUC for approval.
func New(l pkgLog.Logger, uc ndr.UseCase, actionUC action.UseCase, d discord.IDiscord) handler {
	return handler{
		l:        l,
		uc:       uc,
		actionUC: actionUC,
		discord:  d,
	}
}
