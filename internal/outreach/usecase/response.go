package usecase

import (
	"context"

	"ndr-srv/internal/action"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/outreach"
	"ndr-srv/internal/outreach/repository"
)

func (uc *usecase) RecordResponse(ctx context.Context, sc model.Scope, ip outreach.RecordResponseInput) (outreach.RecordResponseOutput, error) {
	if !sc.CanOperate() {
		return outreach.RecordResponseOutput{}, outreach.ErrPermissionDenied
	}
	if !ip.Kind.IsValid() {
		return outreach.RecordResponseOutput{}, outreach.ErrInvalidResponse
	}

	n, err := uc.activeNDR(ctx, ip.NDRID)
	if err != nil {
		return outreach.RecordResponseOutput{}, err
	}

	resp, err := uc.repo.CreateResponse(ctx, repository.CreateResponseOptions{Response: model.CustomerResponse{
		NDRID:       n.ID,
		Kind:        ip.Kind,
		Note:        ip.Note,
		ReattemptAt: ip.ReattemptAt,
		RecordedBy:  sc.UserID,
	}})
	if err != nil {
		uc.l.Errorf(ctx, "internal.outreach.usecase.RecordResponse.repo.CreateResponse: %v", err)
		return outreach.RecordResponseOutput{}, err
	}
	uc.l.Infof(ctx, "customer response ndr=%s kind=%s by=%s", n.Code, ip.Kind, sc.UserID)

	out := outreach.RecordResponseOutput{Response: resp, NDR: n}
	actor := model.OperatorActor(sc.UserID)

	switch ip.Kind {
	case model.ResponseConfirmed:
		updated, err := uc.ndrUC.Transition(ctx, ndr.TransitionInput{
			ID:    n.ID,
			To:    model.NDRStatusResolved,
			Actor: actor,
			Note:  "customer confirmed",
		})
		if err != nil {
			uc.l.Warnf(ctx, "internal.outreach.usecase.RecordResponse.ndrUC.Transition: %v", err)
			return out, err
		}
		out.NDR = updated

	case model.ResponseReschedule:
		if n.Status == model.NDRStatusReattemptScheduled {
			return out, nil
		}
		if n.Status == model.NDRStatusOpen {
			n, err = uc.ndrUC.Transition(ctx, ndr.TransitionInput{
				ID:    n.ID,
				To:    model.NDRStatusActionRequested,
				Actor: actor,
				Note:  "customer responded",
			})
			if err != nil {
				uc.l.Warnf(ctx, "internal.outreach.usecase.RecordResponse.ndrUC.Transition: %v", err)
				return out, err
			}
			out.NDR = n
		}

		po, err := uc.actionUC.Propose(ctx, action.ProposeInput{
			NDRID:      n.ID,
			Kind:       model.ActionReattempt,
			Config:     model.ActionConfig{ReattemptAt: ip.ReattemptAt, AttemptNumber: n.AttemptNumber, Note: ip.Note},
			ProposedBy: actor,
		})
		if err != nil {
			uc.l.Warnf(ctx, "internal.outreach.usecase.RecordResponse.actionUC.Propose: %v", err)
			return out, err
		}
		out.Action = &po.Action
		if refreshed, err := uc.ndrUC.Detail(ctx, sc, n.ID); err == nil {
			out.NDR = refreshed
		}
	}
	return out, nil
}
