package usecase

import (
	"context"
	"errors"

	"ndr-srv/internal/model"
	"ndr-srv/internal/scheduler"
	"ndr-srv/internal/scheduler/repository"
)

func (uc *usecase) Latest(ctx context.Context, sc model.Scope) (model.SchedulerRun, error) {
	r, err := uc.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.SchedulerRun{}, scheduler.ErrRunNotFound
		}
		uc.l.Errorf(ctx, "internal.scheduler.usecase.Latest.repo.Latest: %v", err)
		return model.SchedulerRun{}, err
	}
	return r, nil
}

func (uc *usecase) Detail(ctx context.Context, sc model.Scope, id string) (model.SchedulerRun, error) {
	r, err := uc.repo.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.SchedulerRun{}, scheduler.ErrRunNotFound
		}
		uc.l.Errorf(ctx, "internal.scheduler.usecase.Detail.repo.Detail: %v", err)
		return model.SchedulerRun{}, err
	}
	return r, nil
}

func (uc *usecase) Get(ctx context.Context, sc model.Scope, ip scheduler.GetInput) (scheduler.GetOutput, error) {
	switch ip.Status {
	case "", model.RunStatusRunning, model.RunStatusSucceeded, model.RunStatusFailed:
	default:
		return scheduler.GetOutput{}, scheduler.ErrInvalidStatus
	}

	runs, pag, err := uc.repo.Get(ctx, repository.GetOptions{Status: ip.Status, PaginateQuery: ip.PaginateQuery})
	if err != nil {
		uc.l.Errorf(ctx, "internal.scheduler.usecase.Get.repo.Get: %v", err)
		return scheduler.GetOutput{}, err
	}
	return scheduler.GetOutput{Runs: runs, Paginator: pag}, nil
}
