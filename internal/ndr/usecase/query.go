package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/ndr/repository"
)

func (uc *usecase) Detail(ctx context.Context, sc model.Scope, id string) (model.NDR, error) {
	return uc.detail(ctx, id)
}

func (uc *usecase) Get(ctx context.Context, sc model.Scope, ip ndr.GetInput) (ndr.GetOutput, error) {
	ndrs, pag, err := uc.repo.Get(ctx, repository.GetOptions{
		Filter: repository.Filter{
			Statuses:   ip.Filter.Statuses,
			Priorities: ip.Filter.Priorities,
			Reasons:    ip.Filter.Reasons,
			DeliveryID: ip.Filter.DeliveryID,
			Escalated:  ip.Filter.Escalated,
		},
		PaginateQuery: ip.PaginateQuery,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.ndr.usecase.Get.repo.Get: %v", err)
		return ndr.GetOutput{}, err
	}
	return ndr.GetOutput{NDRs: ndrs, Paginator: pag}, nil
}

func (uc *usecase) History(ctx context.Context, sc model.Scope, id string) ([]model.Transition, error) {
	trs, err := uc.repo.ListTransitions(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ndr.ErrNDRNotFound
		}
		uc.l.Errorf(ctx, "internal.ndr.usecase.History.repo.ListTransitions: %v", err)
		return nil, err
	}
	return trs, nil
}

func (uc *usecase) ListActive(ctx context.Context) ([]model.NDR, error) {
	ndrs, err := uc.repo.List(ctx, repository.ListOptions{
		Filter: repository.Filter{Statuses: model.ActiveNDRStatuses},
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.ndr.usecase.ListActive.repo.List: %v", err)
		return nil, err
	}
	return ndrs, nil
}

func (uc *usecase) FindByDelivery(ctx context.Context, deliveryID string) (model.NDR, error) {
	n, err := uc.repo.LatestByDelivery(ctx, deliveryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NDR{}, ndr.ErrNDRNotFound
		}
		uc.l.Errorf(ctx, "internal.ndr.usecase.FindByDelivery.repo.LatestByDelivery: %v", err)
		return model.NDR{}, err
	}
	return n, nil
}

// Stats serves the dashboard counts from cache when available.
func (uc *usecase) Stats(ctx context.Context, sc model.Scope) (model.NDRStats, error) {
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, statsCacheKey); err == nil {
			var st model.NDRStats
			if err := json.Unmarshal([]byte(raw), &st); err == nil {
				return st, nil
			}
		}
	}

	st, err := uc.repo.Stats(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.ndr.usecase.Stats.repo.Stats: %v", err)
		return model.NDRStats{}, err
	}

	if uc.cache != nil {
		b, _ := json.Marshal(st)
		if err := uc.cache.Set(ctx, statsCacheKey, b, uc.statsTTL); err != nil {
			uc.l.Warnf(ctx, "internal.ndr.usecase.Stats.cache.Set: %v", err)
		}
	}
	return st, nil
}
