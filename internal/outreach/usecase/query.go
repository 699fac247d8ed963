package usecase

import (
	"context"
	"errors"

	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/outreach"
)

func (uc *usecase) ListAttempts(ctx context.Context, sc model.Scope, ndrID string) ([]model.OutreachAttempt, error) {
	if _, err := uc.findNDR(ctx, ndrID); err != nil {
		return nil, err
	}

	attempts, err := uc.repo.ListAttempts(ctx, ndrID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.outreach.usecase.ListAttempts.repo.ListAttempts: %v", err)
		return nil, err
	}
	for i := range attempts {
		plain, err := uc.open(attempts[i].Recipient)
		if err != nil {
			uc.l.Warnf(ctx, "internal.outreach.usecase.ListAttempts.open attempt=%s: %v", attempts[i].ID, err)
			plain = ""
		}
		attempts[i].Recipient = plain
	}
	return attempts, nil
}

func (uc *usecase) ListResponses(ctx context.Context, sc model.Scope, ndrID string) ([]model.CustomerResponse, error) {
	if _, err := uc.findNDR(ctx, ndrID); err != nil {
		return nil, err
	}

	resps, err := uc.repo.ListResponses(ctx, ndrID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.outreach.usecase.ListResponses.repo.ListResponses: %v", err)
		return nil, err
	}
	return resps, nil
}

func (uc *usecase) Stats(ctx context.Context, ndrID string) (model.OutreachStats, error) {
	st, err := uc.repo.Stats(ctx, ndrID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.outreach.usecase.Stats.repo.Stats: %v", err)
		return model.OutreachStats{}, err
	}
	return st, nil
}

func (uc *usecase) findNDR(ctx context.Context, id string) (model.NDR, error) {
	n, err := uc.ndrUC.Detail(ctx, model.Scope{}, id)
	if err != nil {
		if errors.Is(err, ndr.ErrNDRNotFound) {
			return model.NDR{}, outreach.ErrNDRNotFound
		}
		return model.NDR{}, err
	}
	return n, nil
}

func (uc *usecase) activeNDR(ctx context.Context, id string) (model.NDR, error) {
	n, err := uc.findNDR(ctx, id)
	if err != nil {
		return model.NDR{}, err
	}
	if n.Status.IsTerminal() {
		return model.NDR{}, outreach.ErrNDRNotActive
	}
	return n, nil
}

func (uc *usecase) seal(recipient string) (string, error) {
	if uc.enc == nil {
		return recipient, nil
	}
	return uc.enc.Encrypt(recipient)
}

func (uc *usecase) open(stored string) (string, error) {
	if uc.enc == nil {
		return stored, nil
	}
	return uc.enc.Decrypt(stored)
}
