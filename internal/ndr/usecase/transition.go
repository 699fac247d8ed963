package usecase

import (
	"context"
	"strings"
	"time"

	"ndr-srv/internal/archive"
	"ndr-srv/internal/event"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/ndr/repository"
	postgresPkg "ndr-srv/pkg/postgre"
)

func (uc *usecase) Transition(ctx context.Context, ip ndr.TransitionInput) (model.NDR, error) {
	cur, err := uc.detail(ctx, ip.ID)
	if err != nil {
		return model.NDR{}, err
	}
	if ip.ExpectedVersion != 0 && cur.Version != ip.ExpectedVersion {
		return model.NDR{}, ndr.ErrConcurrentModification
	}
	return uc.transition(ctx, cur, ip)
}

func (uc *usecase) ManualTransition(ctx context.Context, sc model.Scope, ip ndr.ManualTransitionInput) (model.NDR, error) {
	if !sc.CanOperate() {
		return model.NDR{}, ndr.ErrPermissionDenied
	}
	return uc.Transition(ctx, ndr.TransitionInput{
		ID:              ip.ID,
		To:              ip.To,
		Actor:           model.OperatorActor(sc.UserID),
		Note:            ip.Note,
		ExpectedVersion: ip.ExpectedVersion,
	})
}

func (uc *usecase) Close(ctx context.Context, sc model.Scope, id string) (model.NDR, error) {
	if !sc.CanOperate() {
		return model.NDR{}, ndr.ErrPermissionDenied
	}
	return uc.Transition(ctx, ndr.TransitionInput{
		ID:    id,
		To:    model.NDRStatusClosed,
		Actor: model.OperatorActor(sc.UserID),
	})
}

func (uc *usecase) CloseBatch(ctx context.Context, ip ndr.CloseBatchInput) (ndr.CloseBatchOutput, error) {
	limit := ip.Limit
	if limit <= 0 || limit > closeBatchLimit {
		limit = closeBatchLimit
	}
	before := uc.clock().Add(-ip.OlderThan)

	candidates, err := uc.repo.List(ctx, repository.ListOptions{
		Filter: repository.Filter{
			Statuses:      []model.NDRStatus{model.NDRStatusResolved, model.NDRStatusRTO},
			UpdatedBefore: &before,
		},
		Limit: limit,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.ndr.usecase.CloseBatch.repo.List: %v", err)
		return ndr.CloseBatchOutput{}, err
	}

	var out ndr.CloseBatchOutput
	for _, n := range candidates {
		_, err := uc.transition(ctx, n, ndr.TransitionInput{
			ID:    n.ID,
			To:    model.NDRStatusClosed,
			Actor: model.SystemActor("close-batch"),
		})
		if err != nil {
			uc.l.Warnf(ctx, "internal.ndr.usecase.CloseBatch.transition %s: %v", n.Code, err)
			out.Failed++
			continue
		}
		out.Closed++
	}

	uc.l.Infof(ctx, "close batch finished closed=%d failed=%d", out.Closed, out.Failed)
	return out, nil
}

// transition applies ip to the snapshot cur. The write is rejected when the
// stored record moved past cur.Version.
func (uc *usecase) transition(ctx context.Context, cur model.NDR, ip ndr.TransitionInput) (model.NDR, error) {
	if cur.Status == model.NDRStatusClosed && ip.To == model.NDRStatusClosed {
		return cur, nil
	}
	if err := ndr.CheckTransition(cur, ip.To, ip.ActionID); err != nil {
		uc.l.Warnf(ctx, "internal.ndr.usecase.Transition.CheckTransition code=%s: %v", cur.Code, err)
		return model.NDR{}, err
	}

	now := uc.clock()
	next := cur
	next.Status = ip.To
	switch ip.To {
	case model.NDRStatusResolved, model.NDRStatusRTO:
		next.ResolvedAt = &now
	case model.NDRStatusClosed:
		next.ClosedAt = &now
	}

	tr := model.Transition{
		ID:        postgresPkg.NewUUID(),
		NDRID:     cur.ID,
		From:      cur.Status,
		To:        ip.To,
		Actor:     ip.Actor,
		ActionID:  ip.ActionID,
		Note:      ip.Note,
		CreatedAt: now,
	}

	updated, err := uc.update(ctx, "Transition", next, cur.Version, &tr)
	if err != nil {
		return model.NDR{}, err
	}

	uc.l.Infof(ctx, "ndr transition code=%s %s->%s actor=%s:%s", updated.Code, tr.From, tr.To, tr.Actor.Type, tr.Actor.ID)
	uc.publish(ctx, "Transition", event.NDRTransitioned(updated, tr))
	if !cur.Status.IsTerminal() && updated.Status.IsTerminal() {
		uc.cancelPending(ctx, updated)
	}
	if updated.Status == model.NDRStatusClosed {
		uc.archive(ctx, updated)
	}
	return updated, nil
}

// cancelPending drops approvals that can no longer apply. Failures are logged only.
func (uc *usecase) cancelPending(ctx context.Context, n model.NDR) {
	if uc.pending == nil {
		return
	}
	note := "ndr " + strings.ToLower(string(n.Status))
	cancelled, err := uc.pending.CancelPending(ctx, n.ID, note)
	if err != nil {
		uc.l.Errorf(ctx, "internal.ndr.usecase.cancelPending.CancelPending code=%s: %v", n.Code, err)
		return
	}
	if cancelled > 0 {
		uc.l.Infof(ctx, "pending actions cancelled code=%s count=%d", n.Code, cancelled)
	}
}

func (uc *usecase) archive(ctx context.Context, n model.NDR) {
	trs, err := uc.repo.ListTransitions(ctx, n.ID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.ndr.usecase.archive.repo.ListTransitions: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	name, err := uc.archiver.Archive(ctx, archive.Bundle{NDR: n, Transitions: trs, ArchivedAt: uc.clock()})
	if err != nil {
		uc.l.Errorf(ctx, "internal.ndr.usecase.archive.Archive code=%s: %v", n.Code, err)
		return
	}
	if name != "" {
		uc.l.Infof(ctx, "ndr archived code=%s object=%s", n.Code, name)
	}
}
