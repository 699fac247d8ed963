package memory

import (
	"context"
	"slices"
	"sort"

	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr/repository"
	"ndr-srv/pkg/paginator"
	postgresPkg "ndr-srv/pkg/postgre"
)

func (r *implRepository) Create(ctx context.Context, opts repository.CreateOptions) (model.NDR, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := opts.NDR
	for _, cur := range r.ndrs {
		if cur.DeliveryID == n.DeliveryID && !cur.Status.IsTerminal() {
			return model.NDR{}, repository.ErrConflict
		}
	}
	if n.ID == "" {
		n.ID = postgresPkg.NewUUID()
	}
	now := r.clock()
	n.Version = 1
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = n.CreatedAt

	tr := opts.Transition
	tr.NDRID = n.ID
	if tr.ID == "" {
		tr.ID = postgresPkg.NewUUID()
	}

	r.ndrs[n.ID] = n
	r.seq[n.ID] = len(r.seq)
	r.transitions[n.ID] = append(r.transitions[n.ID], tr)
	return n, nil
}

func (r *implRepository) Update(ctx context.Context, opts repository.UpdateOptions) (model.NDR, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.ndrs[opts.NDR.ID]
	if !ok {
		return model.NDR{}, repository.ErrNotFound
	}
	if cur.Version != opts.ExpectedVersion {
		return model.NDR{}, repository.ErrConflict
	}

	n := opts.NDR
	n.CreatedAt = cur.CreatedAt
	n.Version = cur.Version + 1
	n.UpdatedAt = r.clock()
	r.ndrs[n.ID] = n

	if opts.Transition != nil {
		tr := *opts.Transition
		tr.NDRID = n.ID
		if tr.ID == "" {
			tr.ID = postgresPkg.NewUUID()
		}
		r.transitions[n.ID] = append(r.transitions[n.ID], tr)
	}
	return n, nil
}

func (r *implRepository) Detail(ctx context.Context, id string) (model.NDR, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.ndrs[id]
	if !ok {
		return model.NDR{}, repository.ErrNotFound
	}
	return n, nil
}

func (r *implRepository) LatestByDelivery(ctx context.Context, deliveryID string) (model.NDR, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		latest model.NDR
		found  bool
	)
	for _, n := range r.ndrs {
		if n.DeliveryID != deliveryID {
			continue
		}
		if !found || newer(n, latest, r.seq) {
			latest, found = n, true
		}
	}
	if !found {
		return model.NDR{}, repository.ErrNotFound
	}
	return latest, nil
}

func (r *implRepository) List(ctx context.Context, opts repository.ListOptions) ([]model.NDR, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := r.filter(opts.Filter)
	if opts.Limit > 0 && len(res) > opts.Limit {
		res = res[:opts.Limit]
	}
	return res, nil
}

func (r *implRepository) Get(ctx context.Context, opts repository.GetOptions) ([]model.NDR, paginator.Paginator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, pag := paginator.PaginateSlice(r.filter(opts.Filter), opts.PaginateQuery)
	return page, pag, nil
}

func (r *implRepository) ListTransitions(ctx context.Context, ndrID string) ([]model.Transition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.ndrs[ndrID]; !ok {
		return nil, repository.ErrNotFound
	}
	return slices.Clone(r.transitions[ndrID]), nil
}

func (r *implRepository) Stats(ctx context.Context) (model.NDRStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st := model.NewNDRStats()
	for _, n := range r.ndrs {
		st.Total++
		st.ByStatus[n.Status]++
		if n.Status.IsTerminal() {
			continue
		}
		st.Active++
		st.ByPriority[n.Priority]++
		st.ByReason[n.Reason]++
		if n.Escalated {
			st.Escalated++
		}
	}
	return st, nil
}

// filter returns matches ordered by priority rank, then risk score, then age.
func (r *implRepository) filter(f repository.Filter) []model.NDR {
	res := make([]model.NDR, 0)
	for _, n := range r.ndrs {
		if len(f.IDs) > 0 && !slices.Contains(f.IDs, n.ID) {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, n.Status) {
			continue
		}
		if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, n.Priority) {
			continue
		}
		if len(f.Reasons) > 0 && !slices.Contains(f.Reasons, n.Reason) {
			continue
		}
		if f.DeliveryID != "" && n.DeliveryID != f.DeliveryID {
			continue
		}
		if f.Escalated != nil && n.Escalated != *f.Escalated {
			continue
		}
		if f.UpdatedBefore != nil && !n.UpdatedAt.Before(*f.UpdatedBefore) {
			continue
		}
		res = append(res, n)
	}
	sort.Slice(res, func(i, j int) bool {
		if a, b := res[i].Priority.Rank(), res[j].Priority.Rank(); a != b {
			return a > b
		}
		if res[i].RiskScore != res[j].RiskScore {
			return res[i].RiskScore > res[j].RiskScore
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res
}

// newer orders by CreatedAt, then by insertion.
func newer(a, b model.NDR, seq map[string]int) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return seq[a.ID] > seq[b.ID]
}
