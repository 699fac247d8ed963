package usecase

import (
	"context"
	"errors"

	"ndr-srv/internal/alert"
	"ndr-srv/internal/event"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/ndr/repository"
	postgresPkg "ndr-srv/pkg/postgre"
)

func (uc *usecase) Open(ctx context.Context, ip ndr.OpenInput) (model.NDR, error) {
	if ip.DeliveryID == "" {
		return model.NDR{}, ndr.ErrDeliveryRequired
	}
	if !ip.Reason.IsValid() {
		return model.NDR{}, ndr.ErrInvalidReason
	}
	if ip.Confidence < 0 || ip.Confidence > 1 {
		return model.NDR{}, ndr.ErrInvalidConfidence
	}

	actor := ip.Actor
	if actor.Type == "" {
		actor = model.RuleActor(ip.RuleID)
	}

	now := uc.clock()
	id := postgresPkg.NewUUID()
	n := model.NDR{
		ID:            id,
		Code:          ndr.NewCode(id, now),
		DeliveryID:    ip.DeliveryID,
		OrderID:       ip.OrderID,
		Reason:        ip.Reason,
		Confidence:    ip.Confidence,
		RuleID:        ip.RuleID,
		RiskScore:     ip.Assessment.Score,
		Priority:      ip.Assessment.Priority,
		Status:        model.NDRStatusOpen,
		AttemptNumber: ip.AttemptNumber,
		CreatedAt:     now,
	}
	tr := model.Transition{
		ID:        postgresPkg.NewUUID(),
		NDRID:     id,
		To:        model.NDRStatusOpen,
		Actor:     actor,
		CreatedAt: now,
	}

	created, err := uc.repo.Create(ctx, repository.CreateOptions{NDR: n, Transition: tr})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			uc.l.Warnf(ctx, "internal.ndr.usecase.Open.repo.Create: delivery %s already has an active ndr", ip.DeliveryID)
			return model.NDR{}, ndr.ErrActiveNDRExists
		}
		uc.l.Errorf(ctx, "internal.ndr.usecase.Open.repo.Create: %v", err)
		return model.NDR{}, err
	}

	uc.l.Infof(ctx, "ndr opened code=%s delivery=%s reason=%s risk=%d priority=%s",
		created.Code, created.DeliveryID, created.Reason, created.RiskScore, created.Priority)
	uc.publish(ctx, "Open", event.NDRTransitioned(created, tr))
	return created, nil
}

func (uc *usecase) Rescore(ctx context.Context, ip ndr.RescoreInput) (model.NDR, error) {
	cur, err := uc.detail(ctx, ip.ID)
	if err != nil {
		return model.NDR{}, err
	}
	if ip.ExpectedVersion != 0 && cur.Version != ip.ExpectedVersion {
		return model.NDR{}, ndr.ErrConcurrentModification
	}
	if cur.Status.IsTerminal() {
		return model.NDR{}, ndr.ErrTerminal
	}

	next := cur
	next.RiskScore = ip.Assessment.Score
	next.Priority = ip.Assessment.Priority
	// Attempt number never decreases.
	if ip.AttemptNumber > next.AttemptNumber {
		next.AttemptNumber = ip.AttemptNumber
	}
	if next.RiskScore == cur.RiskScore && next.Priority == cur.Priority && next.AttemptNumber == cur.AttemptNumber {
		return cur, nil
	}

	updated, err := uc.update(ctx, "Rescore", next, cur.Version, nil)
	if err != nil {
		return model.NDR{}, err
	}
	uc.l.Debugf(ctx, "ndr rescored code=%s risk=%d->%d priority=%s->%s attempts=%d",
		updated.Code, cur.RiskScore, updated.RiskScore, cur.Priority, updated.Priority, updated.AttemptNumber)
	return updated, nil
}

func (uc *usecase) Escalate(ctx context.Context, ip ndr.EscalateInput) (model.NDR, error) {
	cur, err := uc.detail(ctx, ip.ID)
	if err != nil {
		return model.NDR{}, err
	}
	if cur.Status.IsTerminal() {
		return model.NDR{}, ndr.ErrTerminal
	}
	if cur.Escalated {
		return cur, nil
	}

	now := uc.clock()
	next := cur
	next.Escalated = true
	next.EscalatedAt = &now

	updated, err := uc.update(ctx, "Escalate", next, cur.Version, nil)
	if err != nil {
		return model.NDR{}, err
	}

	uc.l.Infof(ctx, "ndr escalated code=%s by=%s:%s", updated.Code, ip.Actor.Type, ip.Actor.ID)
	uc.publish(ctx, "Escalate", event.NDREscalated(updated))
	if uc.alert != nil {
		err := uc.alert.DispatchEscalation(ctx, alert.EscalationInput{
			NDRID:         updated.ID,
			Code:          updated.Code,
			Reason:        string(updated.Reason),
			Priority:      string(updated.Priority),
			RiskScore:     updated.RiskScore,
			AttemptNumber: updated.AttemptNumber,
			Status:        string(updated.Status),
			Actor:         string(ip.Actor.Type) + ":" + ip.Actor.ID,
			Note:          ip.Note,
			EscalatedAt:   now,
		})
		if err != nil {
			uc.l.Warnf(ctx, "internal.ndr.usecase.Escalate.alert.DispatchEscalation: %v", err)
		}
	}
	return updated, nil
}
