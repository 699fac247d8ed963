package usecase

import (
	"context"
	"errors"
	"time"

	"ndr-srv/internal/action"
	"ndr-srv/internal/engine"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/risk"
	"ndr-srv/internal/rule"
	"ndr-srv/internal/shipment"
)

func (uc *usecase) Evaluate(ctx context.Context, deliveryID string) (engine.EvaluationResult, error) {
	rules, err := uc.rules.ListActive(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.engine.usecase.Evaluate.rules.ListActive: %v", err)
		return engine.EvaluationResult{}, err
	}

	c, err := uc.store.GetDeliveryAttempt(ctx, deliveryID)
	if err != nil {
		if errors.Is(err, shipment.ErrDeliveryNotFound) {
			return engine.EvaluationResult{}, engine.ErrDeliveryNotFound
		}
		uc.l.Errorf(ctx, "internal.engine.usecase.Evaluate.store.GetDeliveryAttempt: %v", err)
		return engine.EvaluationResult{}, err
	}

	ev, err := uc.guarded(ctx, deliveryID, func() (engine.EvaluationResult, error) {
		return uc.evaluate(ctx, rules, c)
	})
	uc.metrics.CountContext(string(ev.Outcome))
	return ev, err
}

// evaluate applies the rule snapshot to one context. Status changes go through
// the ndr state machine and actions through the gate.
func (uc *usecase) evaluate(ctx context.Context, rules []model.Rule, c model.DeliveryAttemptContext) (engine.EvaluationResult, error) {
	ev := engine.EvaluationResult{DeliveryID: c.DeliveryID, Outcome: engine.OutcomeUnchanged}

	n, err := uc.ndrUC.FindByDelivery(ctx, c.DeliveryID)
	switch {
	case errors.Is(err, ndr.ErrNDRNotFound):
		return uc.open(ctx, rules, c)
	case err != nil:
		ev.Outcome = engine.OutcomeFailed
		return ev, &engine.RuleEvaluationError{DeliveryID: c.DeliveryID, Err: err}
	}

	if n.Status.IsTerminal() {
		// A terminal NDR only gives way to a new one when a later attempt failed again.
		if c.Cleared() || c.AttemptCount <= n.AttemptNumber {
			ev.NDR = &n
			return ev, nil
		}
		return uc.open(ctx, rules, c)
	}

	if c.Cleared() {
		return uc.resolve(ctx, n, c)
	}
	return uc.update(ctx, rules, n, c)
}

func (uc *usecase) open(ctx context.Context, rules []model.Rule, c model.DeliveryAttemptContext) (engine.EvaluationResult, error) {
	ev := engine.EvaluationResult{DeliveryID: c.DeliveryID, Outcome: engine.OutcomeUnchanged}
	if c.Status != model.DeliveryStatusFailed || c.Cleared() {
		return ev, nil
	}

	now := uc.clock()
	matched, ok := rule.Classify(rules, c, now)
	if !ok {
		return ev, nil
	}

	n, err := uc.ndrUC.Open(ctx, ndr.OpenInput{
		DeliveryID:    c.DeliveryID,
		OrderID:       c.OrderID,
		Reason:        matched.Outcome.Reason,
		Confidence:    matched.Outcome.Confidence,
		RuleID:        matched.ID,
		AttemptNumber: c.AttemptCount,
		Assessment:    risk.Score(signals(c, model.OutreachStats{}, now)),
		Actor:         model.RuleActor(matched.ID),
	})
	if err != nil {
		if errors.Is(err, ndr.ErrActiveNDRExists) {
			ev.Outcome = engine.OutcomeConflict
			return ev, nil
		}
		ev.Outcome = engine.OutcomeFailed
		return ev, &engine.RuleEvaluationError{DeliveryID: c.DeliveryID, RuleID: matched.ID, Err: err}
	}

	ev.Outcome = engine.OutcomeCreated
	ev.NDR = &n
	proposed, err := uc.propose(ctx, rules, n, c, model.OutreachStats{})
	ev.Proposed = proposed
	return ev, err
}

// update re-opens a rescheduled NDR after a new failed attempt, refreshes its
// risk and raises the actions the context now qualifies for.
func (uc *usecase) update(ctx context.Context, rules []model.Rule, n model.NDR, c model.DeliveryAttemptContext) (engine.EvaluationResult, error) {
	ev := engine.EvaluationResult{DeliveryID: c.DeliveryID, Outcome: engine.OutcomeUnchanged, NDR: &n}
	version := n.Version

	if n.Status == model.NDRStatusReattemptScheduled && c.AttemptCount > n.AttemptNumber {
		reopened, err := uc.ndrUC.Transition(ctx, ndr.TransitionInput{
			ID:              n.ID,
			To:              model.NDRStatusOpen,
			Actor:           model.SystemActor(engineActor),
			Note:            "reattempt failed",
			ExpectedVersion: n.Version,
		})
		if err != nil {
			return uc.writeFailed(ev, err)
		}
		n = reopened
	}

	stats, err := uc.outreachUC.Stats(ctx, n.ID)
	if err != nil {
		ev.Outcome = engine.OutcomeFailed
		return ev, &engine.RuleEvaluationError{DeliveryID: c.DeliveryID, Err: err}
	}

	rescored, err := uc.ndrUC.Rescore(ctx, ndr.RescoreInput{
		ID:              n.ID,
		AttemptNumber:   c.AttemptCount,
		Assessment:      risk.Score(signals(c, stats, uc.clock())),
		ExpectedVersion: n.Version,
	})
	if err != nil {
		return uc.writeFailed(ev, err)
	}
	n = rescored
	ev.NDR = &n
	if n.Version != version {
		ev.Outcome = engine.OutcomeUpdated
	}

	proposed, err := uc.propose(ctx, rules, n, c, stats)
	ev.Proposed = proposed
	return ev, err
}

// propose raises RTO once the attempt threshold is met without a customer
// answer, then every matching action rule. Proposals the NDR no longer
// qualifies for are dropped.
func (uc *usecase) propose(ctx context.Context, rules []model.Rule, n model.NDR, c model.DeliveryAttemptContext, stats model.OutreachStats) ([]model.Action, error) {
	var proposed []model.Action

	if rtoEligible(n, stats) {
		out, err := uc.actionUC.Propose(ctx, action.ProposeInput{
			NDRID:      n.ID,
			Kind:       model.ActionRTO,
			Config:     model.ActionConfig{AttemptNumber: n.AttemptNumber, Note: "attempt threshold reached without customer response"},
			ProposedBy: model.SystemActor(engineActor),
		})
		switch {
		case err == nil:
			if !out.Duplicate {
				proposed = append(proposed, out.Action)
			}
		case !expectedProposalError(err):
			return proposed, &engine.RuleEvaluationError{DeliveryID: c.DeliveryID, Err: err}
		}
	}

	for _, r := range rule.MatchActions(rules, c, uc.clock()) {
		kind := r.Outcome.Action
		if kind == model.ActionEscalate && n.Escalated {
			continue
		}
		out, err := uc.actionUC.Propose(ctx, action.ProposeInput{
			NDRID:      n.ID,
			Kind:       kind,
			Config:     model.ActionConfig{RuleID: r.ID, AttemptNumber: n.AttemptNumber, Note: r.Name},
			ProposedBy: model.RuleActor(r.ID),
		})
		if err != nil {
			if expectedProposalError(err) {
				continue
			}
			return proposed, &engine.RuleEvaluationError{DeliveryID: c.DeliveryID, RuleID: r.ID, Err: err}
		}
		if !out.Duplicate {
			proposed = append(proposed, out.Action)
		}
	}
	return proposed, nil
}

func (uc *usecase) writeFailed(ev engine.EvaluationResult, err error) (engine.EvaluationResult, error) {
	if errors.Is(err, ndr.ErrConcurrentModification) {
		ev.Outcome = engine.OutcomeConflict
		return ev, nil
	}
	ev.Outcome = engine.OutcomeFailed
	return ev, &engine.RuleEvaluationError{DeliveryID: ev.DeliveryID, Err: err}
}

func rtoEligible(n model.NDR, stats model.OutreachStats) bool {
	if n.AttemptNumber < ndr.RTOAttemptThreshold || stats.CustomerResponded {
		return false
	}
	return n.Status == model.NDRStatusOpen || n.Status == model.NDRStatusActionRequested
}

func expectedProposalError(err error) bool {
	return errors.Is(err, ndr.ErrInvalidTransition) ||
		errors.Is(err, ndr.ErrTerminal) ||
		errors.Is(err, ndr.ErrRTOThresholdNotMet) ||
		errors.Is(err, ndr.ErrConcurrentModification)
}

func signals(c model.DeliveryAttemptContext, stats model.OutreachStats, now time.Time) risk.Signals {
	return risk.Signals{
		AttemptCount:      c.AttemptCount,
		ContactAttempts:   stats.Attempts,
		FailedContacts:    stats.Failed,
		CustomerResponded: stats.CustomerResponded,
		AddressQuality:    c.AddressQuality,
		LastAttemptAt:     c.LastAttemptAt,
		Now:               now,
	}
}
