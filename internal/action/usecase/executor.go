package usecase

import (
	"context"

	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
)

type executor func(uc *usecase, ctx context.Context, a model.Action, actor model.Actor) error

// executors maps every action kind to the state machine call that performs it.
var executors = map[model.ActionKind]executor{
	model.ActionReattempt: transitionTo(model.NDRStatusReattemptScheduled),
	model.ActionRTO:       transitionTo(model.NDRStatusRTO),
	model.ActionEscalate:  escalate,
}

func transitionTo(to model.NDRStatus) executor {
	return func(uc *usecase, ctx context.Context, a model.Action, actor model.Actor) error {
		_, err := uc.ndrUC.Transition(ctx, ndr.TransitionInput{
			ID:       a.NDRID,
			To:       to,
			Actor:    actor,
			ActionID: a.ID,
			Note:     a.Config.Note,
		})
		return err
	}
}

func escalate(uc *usecase, ctx context.Context, a model.Action, actor model.Actor) error {
	_, err := uc.ndrUC.Escalate(ctx, ndr.EscalateInput{
		ID:       a.NDRID,
		Actor:    actor,
		ActionID: a.ID,
		Note:     a.Config.Note,
	})
	return err
}

// targetStatus is the status a kind moves the NDR to, empty for kinds that keep it.
func targetStatus(k model.ActionKind) model.NDRStatus {
	switch k {
	case model.ActionReattempt:
		return model.NDRStatusReattemptScheduled
	case model.ActionRTO:
		return model.NDRStatusRTO
	}
	return ""
}
