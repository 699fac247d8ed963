package usecase

import (
	"context"
	"errors"
	"fmt"

	"ndr-srv/internal/action"
	"ndr-srv/internal/action/repository"
	"ndr-srv/internal/alert"
	"ndr-srv/internal/event"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
)

// pendingMarker stands in for the approval when pre-checking a gated transition.
const pendingMarker = "pending"

func (uc *usecase) Propose(ctx context.Context, ip action.ProposeInput) (action.ProposeOutput, error) {
	if _, ok := executors[ip.Kind]; !ok {
		return action.ProposeOutput{}, action.ErrInvalidKind
	}

	n, err := uc.ndrUC.Detail(ctx, model.Scope{}, ip.NDRID)
	if err != nil {
		return action.ProposeOutput{}, err
	}
	if n.Status.IsTerminal() {
		return action.ProposeOutput{}, ndr.ErrTerminal
	}
	if to := targetStatus(ip.Kind); to != "" {
		if err := ndr.CheckTransition(n, to, pendingMarker); err != nil {
			return action.ProposeOutput{}, err
		}
	}

	if uc.policy.RequiresApproval(ip.Kind) {
		return uc.queue(ctx, n, ip)
	}

	a, err := uc.repo.Create(ctx, repository.CreateOptions{Action: model.Action{
		NDRID:          ip.NDRID,
		Kind:           ip.Kind,
		Config:         ip.Config,
		ProposedBy:     ip.ProposedBy,
		ApprovalState:  model.ApprovalAutoApproved,
		ExecutionState: model.ExecutionNotExecuted,
	}})
	if err != nil {
		uc.l.Errorf(ctx, "internal.action.usecase.Propose.repo.Create: %v", err)
		return action.ProposeOutput{}, err
	}

	a, err = uc.execute(ctx, a, ip.ProposedBy)
	if err != nil {
		return action.ProposeOutput{Action: a}, err
	}
	return action.ProposeOutput{Action: a, Outcome: action.OutcomeExecuted}, nil
}

// queue stores an approval-required action as PENDING. An existing pending
// action of the same kind is returned instead of a duplicate.
func (uc *usecase) queue(ctx context.Context, n model.NDR, ip action.ProposeInput) (action.ProposeOutput, error) {
	if existing, err := uc.repo.FindPending(ctx, ip.NDRID, ip.Kind); err == nil {
		return action.ProposeOutput{Action: existing, Outcome: action.OutcomePending, Duplicate: true}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		uc.l.Errorf(ctx, "internal.action.usecase.Propose.repo.FindPending: %v", err)
		return action.ProposeOutput{}, err
	}

	a, err := uc.repo.Create(ctx, repository.CreateOptions{Action: model.Action{
		NDRID:          ip.NDRID,
		Kind:           ip.Kind,
		Config:         ip.Config,
		ProposedBy:     ip.ProposedBy,
		ApprovalState:  model.ApprovalPending,
		ExecutionState: model.ExecutionNotExecuted,
	}})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			existing, ferr := uc.repo.FindPending(ctx, ip.NDRID, ip.Kind)
			if ferr == nil {
				return action.ProposeOutput{Action: existing, Outcome: action.OutcomePending, Duplicate: true}, nil
			}
		}
		uc.l.Errorf(ctx, "internal.action.usecase.Propose.repo.Create: %v", err)
		return action.ProposeOutput{}, err
	}

	uc.l.Infof(ctx, "action queued for approval id=%s kind=%s ndr=%s", a.ID, a.Kind, n.Code)
	uc.publish(ctx, "Propose", event.ActionProposed(a))
	uc.notifyPending(ctx, a, n)
	return action.ProposeOutput{Action: a, Outcome: action.OutcomePending}, nil
}

func (uc *usecase) Approve(ctx context.Context, sc model.Scope, ip action.DecideInput) (model.Action, error) {
	if !sc.CanApprove() {
		return model.Action{}, action.ErrPermissionDenied
	}

	a, err := uc.decide(ctx, "Approve", sc, ip, model.ApprovalApproved)
	if err != nil {
		return model.Action{}, err
	}
	return uc.execute(ctx, a, model.OperatorActor(sc.UserID))
}

func (uc *usecase) Reject(ctx context.Context, sc model.Scope, ip action.DecideInput) (model.Action, error) {
	if !sc.CanApprove() {
		return model.Action{}, action.ErrPermissionDenied
	}
	return uc.decide(ctx, "Reject", sc, ip, model.ApprovalRejected)
}

func (uc *usecase) decide(ctx context.Context, method string, sc model.Scope, ip action.DecideInput, state model.ApprovalState) (model.Action, error) {
	a, err := uc.repo.Decide(ctx, repository.DecideOptions{
		ID:        ip.ID,
		State:     state,
		DecidedBy: sc.UserID,
		Note:      ip.Note,
		DecidedAt: uc.clock(),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return model.Action{}, action.ErrActionNotFound
		case errors.Is(err, repository.ErrConflict):
			uc.l.Warnf(ctx, "internal.action.usecase.%s.repo.Decide: action %s is not pending", method, ip.ID)
			return model.Action{}, action.ErrAlreadyDecided
		}
		uc.l.Errorf(ctx, "internal.action.usecase.%s.repo.Decide: %v", method, err)
		return model.Action{}, err
	}

	uc.l.Infof(ctx, "action decided id=%s kind=%s state=%s by=%s", a.ID, a.Kind, a.ApprovalState, sc.UserID)
	uc.publish(ctx, method, event.ActionDecided(a))
	return a, nil
}

// execute runs the kind's executor and records the result on the action.
func (uc *usecase) execute(ctx context.Context, a model.Action, actor model.Actor) (model.Action, error) {
	execErr := executors[a.Kind](uc, ctx, a, actor)

	opts := repository.MarkExecutedOptions{ID: a.ID, State: model.ExecutionExecuted, At: uc.clock()}
	if execErr != nil {
		opts.State = model.ExecutionFailed
		opts.Error = execErr.Error()
	}
	marked, err := uc.repo.MarkExecuted(ctx, opts)
	if err != nil {
		uc.l.Errorf(ctx, "internal.action.usecase.execute.repo.MarkExecuted: %v", err)
		return a, err
	}

	if execErr != nil {
		uc.l.Warnf(ctx, "internal.action.usecase.execute id=%s kind=%s: %v", a.ID, a.Kind, execErr)
		return marked, fmt.Errorf("%w: %w", action.ErrExecutionFailed, execErr)
	}
	uc.l.Infof(ctx, "action executed id=%s kind=%s ndr=%s actor=%s:%s", marked.ID, marked.Kind, marked.NDRID, actor.Type, actor.ID)
	return marked, nil
}

func (uc *usecase) Detail(ctx context.Context, sc model.Scope, id string) (model.Action, error) {
	a, err := uc.repo.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Action{}, action.ErrActionNotFound
		}
		uc.l.Errorf(ctx, "internal.action.usecase.Detail.repo.Detail: %v", err)
		return model.Action{}, err
	}
	return a, nil
}

func (uc *usecase) Get(ctx context.Context, sc model.Scope, ip action.GetInput) (action.GetOutput, error) {
	as, pag, err := uc.repo.Get(ctx, repository.GetOptions{
		Filter: repository.Filter{
			NDRID:         ip.Filter.NDRID,
			Kind:          ip.Filter.Kind,
			ApprovalState: ip.Filter.ApprovalState,
		},
		PaginateQuery: ip.PaginateQuery,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.action.usecase.Get.repo.Get: %v", err)
		return action.GetOutput{}, err
	}
	return action.GetOutput{Actions: as, Paginator: pag}, nil
}

func (uc *usecase) PendingCount(ctx context.Context) (int64, error) {
	n, err := uc.repo.CountPending(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.action.usecase.PendingCount.repo.CountPending: %v", err)
		return 0, err
	}
	return n, nil
}

func (uc *usecase) publish(ctx context.Context, method string, ev event.Event) {
	if err := uc.pub.Publish(ctx, ev); err != nil {
		uc.l.Warnf(ctx, "internal.action.usecase.%s.pub.Publish: %v", method, err)
	}
}

func (uc *usecase) notifyPending(ctx context.Context, a model.Action, n model.NDR) {
	if uc.alert == nil {
		return
	}
	cnt, err := uc.repo.CountPending(ctx)
	if err != nil {
		uc.l.Warnf(ctx, "internal.action.usecase.notifyPending.repo.CountPending: %v", err)
	}
	err = uc.alert.DispatchApprovalPending(ctx, alert.ApprovalPendingInput{
		ActionID:     a.ID,
		Kind:         string(a.Kind),
		NDRID:        n.ID,
		NDRCode:      n.Code,
		ProposedBy:   string(a.ProposedBy.Type) + ":" + a.ProposedBy.ID,
		PendingCount: cnt,
		ProposedAt:   a.CreatedAt,
	})
	if err != nil {
		uc.l.Warnf(ctx, "internal.action.usecase.notifyPending.alert.DispatchApprovalPending: %v", err)
	}
}
