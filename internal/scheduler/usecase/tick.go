package usecase

import (
	"context"
	"errors"
	"time"

	"ndr-srv/internal/alert"
	"ndr-srv/internal/engine"
	"ndr-srv/internal/event"
	"ndr-srv/internal/model"
	"ndr-srv/internal/scheduler"
	"ndr-srv/internal/scheduler/repository"
)

func (uc *usecase) Tick(ctx context.Context) (scheduler.TickOutput, error) {
	now := uc.clock()

	reaped, err := uc.repo.ReapExpired(ctx, now, scheduler.ErrSchedulerOverrun.Error())
	if err != nil {
		uc.l.Errorf(ctx, "internal.scheduler.usecase.Tick.repo.ReapExpired: %v", err)
		return scheduler.TickOutput{}, err
	}
	for _, r := range reaped {
		uc.l.Warnf(ctx, "internal.scheduler.usecase.Tick: run %s of %s reaped: %v", r.ID, r.Instance, scheduler.ErrSchedulerOverrun)
		uc.finished(ctx, r)
	}

	run, err := uc.repo.Begin(ctx, repository.BeginOptions{
		Instance:   uc.instance,
		StartedAt:  now,
		DeadlineAt: now.Add(uc.timeout),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return uc.skip(ctx)
		}
		uc.l.Errorf(ctx, "internal.scheduler.usecase.Tick.repo.Begin: %v", err)
		return scheduler.TickOutput{}, err
	}
	uc.l.Infof(ctx, "scheduler run %s started on %s deadline=%s", run.ID, run.Instance, run.DeadlineAt.Format(time.RFC3339))

	sctx, cancel := context.WithDeadline(ctx, run.DeadlineAt)
	res, scanErr := uc.engine.Scan(sctx)
	cancel()

	opts := repository.FinishOptions{
		ID:         run.ID,
		Status:     model.RunStatusSucceeded,
		FinishedAt: uc.clock(),
		Counters:   counters(res),
	}
	switch {
	case scanErr == nil:
	case errors.Is(scanErr, context.DeadlineExceeded):
		opts.Status = model.RunStatusFailed
		opts.Error = scheduler.ErrSchedulerOverrun.Error()
	default:
		opts.Status = model.RunStatusFailed
		opts.Error = scanErr.Error()
	}

	// The caller may be gone by now. The run record must still be closed.
	finished, err := uc.repo.Finish(context.WithoutCancel(ctx), opts)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			uc.l.Warnf(ctx, "internal.scheduler.usecase.Tick.repo.Finish: run %s was reaped before it finished", run.ID)
			return scheduler.TickOutput{Run: run}, nil
		}
		uc.l.Errorf(ctx, "internal.scheduler.usecase.Tick.repo.Finish: %v", err)
		return scheduler.TickOutput{Run: run}, err
	}

	if scanErr != nil {
		uc.l.Warnf(ctx, "internal.scheduler.usecase.Tick.engine.Scan: run %s failed: %v", run.ID, scanErr)
	} else {
		uc.l.Infof(ctx, "scheduler run %s succeeded evaluated=%d created=%d updated=%d resolved=%d",
			finished.ID, finished.Evaluated, finished.Created, finished.Updated, finished.AutoResolved)
	}
	uc.finished(ctx, finished)
	return scheduler.TickOutput{Run: finished}, nil
}

func (uc *usecase) Run(ctx context.Context) error {
	uc.l.Infof(ctx, "scheduler loop started interval=%s timeout=%s instance=%s", uc.interval, uc.timeout, uc.instance)

	ticker := time.NewTicker(uc.interval)
	defer ticker.Stop()

	for {
		if _, err := uc.Tick(ctx); err != nil && ctx.Err() == nil {
			uc.l.Errorf(ctx, "internal.scheduler.usecase.Run.Tick: %v", err)
		}

		select {
		case <-ctx.Done():
			uc.l.Infof(ctx, "scheduler loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (uc *usecase) skip(ctx context.Context) (scheduler.TickOutput, error) {
	uc.metrics.CountRun("skipped")
	running, err := uc.repo.Running(ctx)
	if err != nil {
		uc.l.Infof(ctx, "scheduler tick skipped: another run is in progress")
		return scheduler.TickOutput{Skipped: true}, nil
	}
	uc.l.Infof(ctx, "scheduler tick skipped: run %s on %s is in progress", running.ID, running.Instance)
	return scheduler.TickOutput{Run: running, Skipped: true}, nil
}

// finished publishes the run for dashboards and alerts on overruns. Neither
// failure affects the tick.
func (uc *usecase) finished(ctx context.Context, r model.SchedulerRun) {
	ctx = context.WithoutCancel(ctx)
	uc.metrics.CountRun(string(r.Status))

	if err := uc.pub.Publish(ctx, event.SchedulerRunFinished(r)); err != nil {
		uc.l.Warnf(ctx, "internal.scheduler.usecase.finished.pub.Publish: %v", err)
	}

	if r.Error != scheduler.ErrSchedulerOverrun.Error() || uc.alert == nil {
		return
	}
	err := uc.alert.DispatchSchedulerOverrun(ctx, alert.SchedulerOverrunInput{
		RunID:      r.ID,
		Instance:   r.Instance,
		StartedAt:  r.StartedAt,
		DeadlineAt: r.DeadlineAt,
		Evaluated:  r.Evaluated,
		Error:      r.Error,
	})
	if err != nil {
		uc.l.Warnf(ctx, "internal.scheduler.usecase.finished.alert.DispatchSchedulerOverrun: %v", err)
	}
}

func counters(res engine.ScanResult) repository.Counters {
	return repository.Counters{
		RulesExecuted: res.RulesExecuted,
		Evaluated:     res.Evaluated,
		Created:       res.Created,
		Updated:       res.Updated,
		AutoResolved:  res.AutoResolved,
		Failed:        res.Failed,
		Skipped:       res.Skipped,
	}
}
