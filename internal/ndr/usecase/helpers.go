package usecase

import (
	"context"
	"errors"

	"ndr-srv/internal/event"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/ndr/repository"
)

func (uc *usecase) detail(ctx context.Context, id string) (model.NDR, error) {
	n, err := uc.repo.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NDR{}, ndr.ErrNDRNotFound
		}
		uc.l.Errorf(ctx, "internal.ndr.usecase.detail.repo.Detail: %v", err)
		return model.NDR{}, err
	}
	return n, nil
}

func (uc *usecase) update(ctx context.Context, method string, n model.NDR, expectedVersion int, tr *model.Transition) (model.NDR, error) {
	updated, err := uc.repo.Update(ctx, repository.UpdateOptions{NDR: n, ExpectedVersion: expectedVersion, Transition: tr})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return model.NDR{}, ndr.ErrNDRNotFound
		case errors.Is(err, repository.ErrConflict):
			uc.l.Warnf(ctx, "internal.ndr.usecase.%s.repo.Update: version %d of %s is stale", method, expectedVersion, n.Code)
			return model.NDR{}, ndr.ErrConcurrentModification
		}
		uc.l.Errorf(ctx, "internal.ndr.usecase.%s.repo.Update: %v", method, err)
		return model.NDR{}, err
	}
	return updated, nil
}

// publish never fails the caller. Consumers reconcile from the audit trail.
func (uc *usecase) publish(ctx context.Context, method string, ev event.Event) {
	if err := uc.pub.Publish(ctx, ev); err != nil {
		uc.l.Warnf(ctx, "internal.ndr.usecase.%s.pub.Publish %s: %v", method, ev.Type, err)
	}
}
