package memory

import (
	"context"
	"sort"

	"ndr-srv/internal/action/repository"
	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
	postgresPkg "ndr-srv/pkg/postgre"
)

func (r *implRepository) Create(ctx context.Context, opts repository.CreateOptions) (model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := opts.Action
	if a.ApprovalState == model.ApprovalPending {
		for _, cur := range r.actions {
			if cur.NDRID == a.NDRID && cur.Kind == a.Kind && cur.ApprovalState == model.ApprovalPending {
				return model.Action{}, repository.ErrConflict
			}
		}
	}
	if a.ID == "" {
		a.ID = postgresPkg.NewUUID()
	}
	now := r.clock()
	a.CreatedAt = now
	a.UpdatedAt = now

	r.actions[a.ID] = a
	return a, nil
}

func (r *implRepository) Decide(ctx context.Context, opts repository.DecideOptions) (model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.actions[opts.ID]
	if !ok {
		return model.Action{}, repository.ErrNotFound
	}
	if a.ApprovalState != model.ApprovalPending {
		return model.Action{}, repository.ErrConflict
	}

	at := opts.DecidedAt
	a.ApprovalState = opts.State
	a.DecidedBy = opts.DecidedBy
	a.DecisionNote = opts.Note
	a.DecidedAt = &at
	a.UpdatedAt = r.clock()
	r.actions[a.ID] = a
	return a, nil
}

func (r *implRepository) MarkExecuted(ctx context.Context, opts repository.MarkExecutedOptions) (model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.actions[opts.ID]
	if !ok {
		return model.Action{}, repository.ErrNotFound
	}

	at := opts.At
	a.ExecutionState = opts.State
	a.ExecutionError = opts.Error
	a.ExecutedAt = &at
	a.UpdatedAt = r.clock()
	r.actions[a.ID] = a
	return a, nil
}

func (r *implRepository) Detail(ctx context.Context, id string) (model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.actions[id]
	if !ok {
		return model.Action{}, repository.ErrNotFound
	}
	return a, nil
}

func (r *implRepository) FindPending(ctx context.Context, ndrID string, kind model.ActionKind) (model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.actions {
		if a.NDRID == ndrID && a.Kind == kind && a.ApprovalState == model.ApprovalPending {
			return a, nil
		}
	}
	return model.Action{}, repository.ErrNotFound
}

func (r *implRepository) Get(ctx context.Context, opts repository.GetOptions) ([]model.Action, paginator.Paginator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f := opts.Filter
	res := make([]model.Action, 0)
	for _, a := range r.actions {
		if f.NDRID != "" && a.NDRID != f.NDRID {
			continue
		}
		if f.Kind != "" && a.Kind != f.Kind {
			continue
		}
		if f.ApprovalState != "" && a.ApprovalState != f.ApprovalState {
			continue
		}
		res = append(res, a)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})

	page, pag := paginator.PaginateSlice(res, opts.PaginateQuery)
	return page, pag, nil
}

func (r *implRepository) CountPending(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, a := range r.actions {
		if a.ApprovalState == model.ApprovalPending {
			n++
		}
	}
	return n, nil
}

func (r *implRepository) CancelPending(ctx context.Context, opts repository.CancelPendingOptions) ([]model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []model.Action
	for id, a := range r.actions {
		if a.NDRID != opts.NDRID || a.ApprovalState != model.ApprovalPending {
			continue
		}
		at := opts.At
		a.ApprovalState = model.ApprovalRejected
		a.DecidedBy = opts.DecidedBy
		a.DecisionNote = opts.Note
		a.DecidedAt = &at
		a.UpdatedAt = r.clock()
		r.actions[id] = a
		res = append(res, a)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}
