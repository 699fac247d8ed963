package memory

import (
	"context"
	"fmt"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/scheduler/repository"
	"ndr-srv/pkg/paginator"
)

func (r *implRepository) Begin(ctx context.Context, opts repository.BeginOptions) (model.SchedulerRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.running(); ok {
		return model.SchedulerRun{}, repository.ErrConflict
	}

	r.seq++
	run := model.SchedulerRun{
		ID:         fmt.Sprintf("run-%d", r.seq),
		Status:     model.RunStatusRunning,
		Instance:   opts.Instance,
		StartedAt:  opts.StartedAt,
		DeadlineAt: opts.DeadlineAt,
	}
	r.runs = append(r.runs, run)
	return run, nil
}

func (r *implRepository) Finish(ctx context.Context, opts repository.FinishOptions) (model.SchedulerRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.runs {
		if r.runs[i].ID != opts.ID {
			continue
		}
		if r.runs[i].Status != model.RunStatusRunning {
			return model.SchedulerRun{}, repository.ErrConflict
		}
		at := opts.FinishedAt
		run := &r.runs[i]
		run.Status = opts.Status
		run.FinishedAt = &at
		run.Error = opts.Error
		run.RulesExecuted = opts.Counters.RulesExecuted
		run.Evaluated = opts.Counters.Evaluated
		run.Created = opts.Counters.Created
		run.Updated = opts.Counters.Updated
		run.AutoResolved = opts.Counters.AutoResolved
		run.Failed = opts.Counters.Failed
		run.Skipped = opts.Counters.Skipped
		return *run, nil
	}
	return model.SchedulerRun{}, repository.ErrNotFound
}

func (r *implRepository) ReapExpired(ctx context.Context, now time.Time, reason string) ([]model.SchedulerRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var reaped []model.SchedulerRun
	for i := range r.runs {
		run := &r.runs[i]
		if run.Status != model.RunStatusRunning || !run.DeadlineAt.Before(now) {
			continue
		}
		at := now
		run.Status = model.RunStatusFailed
		run.FinishedAt = &at
		run.Error = reason
		reaped = append(reaped, *run)
	}
	return reaped, nil
}

func (r *implRepository) Running(ctx context.Context) (model.SchedulerRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.running()
	if !ok {
		return model.SchedulerRun{}, repository.ErrNotFound
	}
	return run, nil
}

func (r *implRepository) Latest(ctx context.Context) (model.SchedulerRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.runs) == 0 {
		return model.SchedulerRun{}, repository.ErrNotFound
	}
	return r.runs[len(r.runs)-1], nil
}

func (r *implRepository) Detail(ctx context.Context, id string) (model.SchedulerRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, run := range r.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return model.SchedulerRun{}, repository.ErrNotFound
}

func (r *implRepository) Get(ctx context.Context, opts repository.GetOptions) ([]model.SchedulerRun, paginator.Paginator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// newest first
	res := make([]model.SchedulerRun, 0, len(r.runs))
	for i := len(r.runs) - 1; i >= 0; i-- {
		if opts.Status != "" && r.runs[i].Status != opts.Status {
			continue
		}
		res = append(res, r.runs[i])
	}
	page, pag := paginator.PaginateSlice(res, opts.PaginateQuery)
	return page, pag, nil
}

func (r *implRepository) running() (model.SchedulerRun, bool) {
	for i := len(r.runs) - 1; i >= 0; i-- {
		if r.runs[i].Status == model.RunStatusRunning {
			return r.runs[i], true
		}
	}
	return model.SchedulerRun{}, false
}
