package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ndr-srv/internal/engine"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/shipment"

	"golang.org/x/sync/errgroup"
)

func (uc *usecase) Scan(ctx context.Context) (engine.ScanResult, error) {
	start := uc.clock()
	var res engine.ScanResult

	rules, err := uc.rules.ListActive(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.engine.usecase.Scan.rules.ListActive: %v", err)
		return res, err
	}
	res.RulesExecuted = len(rules)

	contexts, err := uc.store.ListOpenDeliveryAttempts(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.engine.usecase.Scan.store.ListOpenDeliveryAttempts: %v", err)
		return res, err
	}

	var mu sync.Mutex
	record := func(ev engine.EvaluationResult) {
		mu.Lock()
		defer mu.Unlock()
		res.Add(ev.Outcome, len(ev.Proposed))
		uc.metrics.CountContext(string(ev.Outcome))
	}

	seen := make(map[string]struct{}, len(contexts))
	g := errgroup.Group{}
	g.SetLimit(uc.workers)
	for _, c := range contexts {
		seen[c.DeliveryID] = struct{}{}
		if ctx.Err() != nil {
			record(engine.EvaluationResult{DeliveryID: c.DeliveryID, Outcome: engine.OutcomeSkipped})
			continue
		}
		g.Go(func() error {
			ev, err := uc.guarded(ctx, c.DeliveryID, func() (engine.EvaluationResult, error) {
				return uc.evaluate(ctx, rules, c)
			})
			if err != nil {
				uc.l.Warnf(ctx, "internal.engine.usecase.Scan.evaluate: %v", err)
			}
			record(ev)
			return nil
		})
	}
	_ = g.Wait()

	uc.sweep(ctx, seen, record)

	uc.metrics.ObserveScan(uc.clock().Sub(start))
	uc.l.Infof(ctx, "scan finished rules=%d evaluated=%d created=%d updated=%d resolved=%d failed=%d skipped=%d proposed=%d",
		res.RulesExecuted, res.Evaluated, res.Created, res.Updated, res.AutoResolved, res.Failed, res.Skipped, res.Proposed)
	return res, ctx.Err()
}

// sweep resolves active NDRs whose delivery left the open set because the
// failure cleared.
func (uc *usecase) sweep(ctx context.Context, seen map[string]struct{}, record func(engine.EvaluationResult)) {
	if ctx.Err() != nil {
		return
	}
	active, err := uc.ndrUC.ListActive(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.engine.usecase.sweep.ndrUC.ListActive: %v", err)
		return
	}

	g := errgroup.Group{}
	g.SetLimit(uc.workers)
	for _, n := range active {
		if _, ok := seen[n.DeliveryID]; ok {
			continue
		}
		if ctx.Err() != nil {
			record(engine.EvaluationResult{DeliveryID: n.DeliveryID, Outcome: engine.OutcomeSkipped})
			continue
		}
		g.Go(func() error {
			ev, err := uc.guarded(ctx, n.DeliveryID, func() (engine.EvaluationResult, error) {
				return uc.sweepOne(ctx, n)
			})
			if err != nil {
				uc.l.Warnf(ctx, "internal.engine.usecase.sweep.sweepOne: %v", err)
			}
			if ev.Outcome != engine.OutcomeUnchanged {
				record(ev)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (uc *usecase) sweepOne(ctx context.Context, n model.NDR) (engine.EvaluationResult, error) {
	ev := engine.EvaluationResult{DeliveryID: n.DeliveryID, Outcome: engine.OutcomeUnchanged, NDR: &n}

	c, err := uc.store.GetDeliveryAttempt(ctx, n.DeliveryID)
	if err != nil {
		if errors.Is(err, shipment.ErrDeliveryNotFound) {
			return ev, nil
		}
		ev.Outcome = engine.OutcomeFailed
		return ev, &engine.RuleEvaluationError{DeliveryID: n.DeliveryID, Err: err}
	}
	if !c.Cleared() {
		return ev, nil
	}
	return uc.resolve(ctx, n, c)
}

// guarded converts a panic in fn into a RuleEvaluationError so one context never stops the scan.
func (uc *usecase) guarded(ctx context.Context, deliveryID string, fn func() (engine.EvaluationResult, error)) (ev engine.EvaluationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			ev = engine.EvaluationResult{DeliveryID: deliveryID, Outcome: engine.OutcomeFailed}
			err = &engine.RuleEvaluationError{DeliveryID: deliveryID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return fn()
}

func (uc *usecase) resolve(ctx context.Context, n model.NDR, c model.DeliveryAttemptContext) (engine.EvaluationResult, error) {
	note := "delivery succeeded"
	if c.Status != model.DeliveryStatusDelivered {
		note = "customer confirmed receipt"
	}
	updated, err := uc.ndrUC.Transition(ctx, ndr.TransitionInput{
		ID:              n.ID,
		To:              model.NDRStatusResolved,
		Actor:           model.SystemActor(engineActor),
		Note:            note,
		ExpectedVersion: n.Version,
	})
	if err != nil {
		if errors.Is(err, ndr.ErrConcurrentModification) {
			return engine.EvaluationResult{DeliveryID: n.DeliveryID, Outcome: engine.OutcomeConflict, NDR: &n}, nil
		}
		return engine.EvaluationResult{DeliveryID: n.DeliveryID, Outcome: engine.OutcomeFailed, NDR: &n},
			&engine.RuleEvaluationError{DeliveryID: n.DeliveryID, Err: err}
	}
	return engine.EvaluationResult{DeliveryID: n.DeliveryID, Outcome: engine.OutcomeResolved, NDR: &updated}, nil
}
