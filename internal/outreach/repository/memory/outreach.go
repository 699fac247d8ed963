package memory

import (
	"context"

	"ndr-srv/internal/model"
	"ndr-srv/internal/outreach/repository"
	postgresPkg "ndr-srv/pkg/postgre"
)

func (r *implRepository) CreateAttempt(ctx context.Context, opts repository.CreateAttemptOptions) (model.OutreachAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.attempts[opts.NDRID]
	a := model.OutreachAttempt{
		ID:            postgresPkg.NewUUID(),
		NDRID:         opts.NDRID,
		AttemptNumber: len(list) + 1,
		Channel:       opts.Channel,
		Recipient:     opts.Recipient,
		Content:       opts.Content,
		Operator:      opts.Operator,
		Actor:         opts.Actor,
		Outcome:       model.OutreachPending,
		CreatedAt:     r.clock(),
	}
	r.attempts[opts.NDRID] = append(list, a)
	return a, nil
}

func (r *implRepository) CompleteAttempt(ctx context.Context, opts repository.CompleteAttemptOptions) (model.OutreachAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for ndrID, list := range r.attempts {
		for i, a := range list {
			if a.ID != opts.ID {
				continue
			}
			if a.Outcome != model.OutreachPending {
				return model.OutreachAttempt{}, repository.ErrConflict
			}
			at := opts.CompletedAt
			a.Outcome = opts.Outcome
			a.ProviderRef = opts.ProviderRef
			a.ProviderResponse = opts.ProviderResponse
			a.Error = opts.Error
			a.CompletedAt = &at
			r.attempts[ndrID][i] = a
			return a, nil
		}
	}
	return model.OutreachAttempt{}, repository.ErrNotFound
}

func (r *implRepository) ListAttempts(ctx context.Context, ndrID string) ([]model.OutreachAttempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.OutreachAttempt{}, r.attempts[ndrID]...), nil
}

func (r *implRepository) CreateResponse(ctx context.Context, opts repository.CreateResponseOptions) (model.CustomerResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	resp := opts.Response
	if resp.ID == "" {
		resp.ID = postgresPkg.NewUUID()
	}
	resp.CreatedAt = r.clock()
	r.responses[resp.NDRID] = append(r.responses[resp.NDRID], resp)
	return resp, nil
}

func (r *implRepository) ListResponses(ctx context.Context, ndrID string) ([]model.CustomerResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.CustomerResponse{}, r.responses[ndrID]...), nil
}

func (r *implRepository) Stats(ctx context.Context, ndrID string) (model.OutreachStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var st model.OutreachStats
	for _, a := range r.attempts[ndrID] {
		st.Attempts++
		switch a.Outcome {
		case model.OutreachSuccess:
			st.Succeeded++
		case model.OutreachFailed:
			st.Failed++
		}
		created := a.CreatedAt
		if st.LastAttemptAt == nil || created.After(*st.LastAttemptAt) {
			st.LastAttemptAt = &created
		}
	}
	for _, resp := range r.responses[ndrID] {
		if resp.Kind.Answered() {
			st.CustomerResponded = true
			break
		}
	}
	return st, nil
}
