package usecase

import (
	"context"
	"time"

	"ndr-srv/internal/action/repository"
	"ndr-srv/internal/event"
	"ndr-srv/internal/ndr"
	pkgLog "ndr-srv/pkg/log"
)

// systemDecider is recorded as decided_by on approvals closed by the system.
const systemDecider = "system"

type pendingCanceller struct {
	l     pkgLog.Logger
	repo  repository.Repository
	pub   event.Publisher
	clock func() time.Time
}

// NewPendingCanceller rejects the pending approvals of NDRs that became terminal.
// It needs only the repository and is built before the gate.
func NewPendingCanceller(l pkgLog.Logger, repo repository.Repository, pub event.Publisher) ndr.PendingCanceller {
	if pub == nil {
		pub = event.Nop()
	}
	return &pendingCanceller{
		l:     l,
		repo:  repo,
		pub:   pub,
		clock: time.Now,
	}
}

func (c *pendingCanceller) CancelPending(ctx context.Context, ndrID, note string) (int, error) {
	cancelled, err := c.repo.CancelPending(ctx, repository.CancelPendingOptions{
		NDRID:     ndrID,
		DecidedBy: systemDecider,
		Note:      note,
		At:        c.clock(),
	})
	if err != nil {
		c.l.Errorf(ctx, "internal.action.usecase.CancelPending.repo.CancelPending: %v", err)
		return 0, err
	}

	for _, a := range cancelled {
		if err := c.pub.Publish(ctx, event.ActionDecided(a)); err != nil {
			c.l.Warnf(ctx, "internal.action.usecase.CancelPending.pub.Publish: %v", err)
		}
	}
	return len(cancelled), nil
}
