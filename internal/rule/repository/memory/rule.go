package memory

import (
	"context"
	"slices"

	"ndr-srv/internal/model"
	"ndr-srv/internal/rule/repository"
	"ndr-srv/pkg/paginator"
	postgresPkg "ndr-srv/pkg/postgre"
)

func (r *implRepository) Create(ctx context.Context, opts repository.CreateOptions) (model.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rl := cloneRule(opts.Rule)
	if rl.ID == "" {
		rl.ID = postgresPkg.NewUUID()
	}
	r.seq++
	now := r.clock()
	rl.Seq = r.seq
	rl.Version = 1
	rl.CreatedAt = now
	rl.UpdatedAt = now
	if rl.UpdatedBy == "" {
		rl.UpdatedBy = rl.CreatedBy
	}

	r.rules[rl.ID] = rl
	r.versions[rl.ID] = append(r.versions[rl.ID], model.RuleVersion{
		RuleID: rl.ID, Version: rl.Version, Snapshot: cloneRule(rl), ChangedBy: rl.CreatedBy, CreatedAt: now,
	})
	return cloneRule(rl), nil
}

func (r *implRepository) Update(ctx context.Context, opts repository.UpdateOptions) (model.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.rules[opts.Rule.ID]
	if !ok {
		return model.Rule{}, repository.ErrNotFound
	}
	if cur.Version != opts.ExpectedVersion {
		return model.Rule{}, repository.ErrConflict
	}

	now := r.clock()
	rl := cloneRule(opts.Rule)
	rl.Seq = cur.Seq
	rl.CreatedAt = cur.CreatedAt
	rl.CreatedBy = cur.CreatedBy
	rl.Version = cur.Version + 1
	rl.UpdatedAt = now

	r.rules[rl.ID] = rl
	r.versions[rl.ID] = append(r.versions[rl.ID], model.RuleVersion{
		RuleID: rl.ID, Version: rl.Version, Snapshot: cloneRule(rl), ChangedBy: rl.UpdatedBy, CreatedAt: now,
	})
	return cloneRule(rl), nil
}

func (r *implRepository) Detail(ctx context.Context, id string) (model.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rl, ok := r.rules[id]
	if !ok {
		return model.Rule{}, repository.ErrNotFound
	}
	return cloneRule(rl), nil
}

func (r *implRepository) List(ctx context.Context, opts repository.ListOptions) ([]model.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(opts.Filter), nil
}

func (r *implRepository) Get(ctx context.Context, opts repository.GetOptions) ([]model.Rule, paginator.Paginator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, pag := paginator.PaginateSlice(r.filter(opts.Filter), opts.PaginateQuery)
	return page, pag, nil
}

func (r *implRepository) ListVersions(ctx context.Context, ruleID string) ([]model.RuleVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.rules[ruleID]; !ok {
		return nil, repository.ErrNotFound
	}
	out := make([]model.RuleVersion, len(r.versions[ruleID]))
	copy(out, r.versions[ruleID])
	return out, nil
}

func (r *implRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.rules)), nil
}

func (r *implRepository) filter(f repository.Filter) []model.Rule {
	out := make([]model.Rule, 0, len(r.rules))
	for _, rl := range r.rules {
		if len(f.IDs) > 0 && !slices.Contains(f.IDs, rl.ID) {
			continue
		}
		if f.Type != "" && rl.Type != f.Type {
			continue
		}
		if f.Active != nil && rl.Active != *f.Active {
			continue
		}
		out = append(out, cloneRule(rl))
	}
	slices.SortFunc(out, func(a, b model.Rule) int {
		if a.Priority != b.Priority {
			return a.Priority - b.Priority
		}
		return int(a.Seq - b.Seq)
	})
	return out
}

// cloneRule detaches the condition slice so callers cannot mutate stored state.
func cloneRule(rl model.Rule) model.Rule {
	rl.Conditions = slices.Clone(rl.Conditions)
	return rl
}
