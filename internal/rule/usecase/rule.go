package usecase

import (
	"context"
	"errors"

	"ndr-srv/internal/model"
	"ndr-srv/internal/rule"
	"ndr-srv/internal/rule/repository"
)

func (uc *usecase) Create(ctx context.Context, sc model.Scope, ip rule.CreateInput) (model.Rule, error) {
	if !sc.CanOperate() {
		return model.Rule{}, rule.ErrPermissionDenied
	}

	rl := model.Rule{
		Name:        ip.Name,
		Description: ip.Description,
		Type:        ip.Type,
		Priority:    ip.Priority,
		Active:      ip.Active,
		Conditions:  ip.Conditions,
		Outcome:     ip.Outcome,
		CreatedBy:   sc.UserID,
		UpdatedBy:   sc.UserID,
	}
	if err := rule.Validate(rl); err != nil {
		uc.l.Warnf(ctx, "internal.rule.usecase.Create.Validate: %v", err)
		return model.Rule{}, err
	}

	created, err := uc.repo.Create(ctx, repository.CreateOptions{Rule: rl})
	if err != nil {
		uc.l.Errorf(ctx, "internal.rule.usecase.Create.repo.Create: %v", err)
		return model.Rule{}, err
	}

	uc.l.Infof(ctx, "rule created id=%s name=%s type=%s priority=%d", created.ID, created.Name, created.Type, created.Priority)
	return created, nil
}

func (uc *usecase) Update(ctx context.Context, sc model.Scope, ip rule.UpdateInput) (model.Rule, error) {
	if !sc.CanOperate() {
		return model.Rule{}, rule.ErrPermissionDenied
	}

	cur, err := uc.detail(ctx, ip.ID)
	if err != nil {
		return model.Rule{}, err
	}

	next := cur
	if ip.Name != nil {
		next.Name = *ip.Name
	}
	if ip.Description != nil {
		next.Description = *ip.Description
	}
	if ip.Priority != nil {
		next.Priority = *ip.Priority
	}
	if ip.Conditions != nil {
		next.Conditions = ip.Conditions
	}
	if ip.Outcome != nil {
		next.Outcome = *ip.Outcome
	}
	next.UpdatedBy = sc.UserID

	if err := rule.Validate(next); err != nil {
		uc.l.Warnf(ctx, "internal.rule.usecase.Update.Validate: %v", err)
		return model.Rule{}, err
	}

	return uc.write(ctx, "Update", next, cur.Version)
}

func (uc *usecase) Activate(ctx context.Context, sc model.Scope, id string) (model.Rule, error) {
	return uc.setActive(ctx, sc, id, true)
}

// Deactivate takes effect at the next ListActive snapshot. NDRs already
// classified by the rule keep their classification.
func (uc *usecase) Deactivate(ctx context.Context, sc model.Scope, id string) (model.Rule, error) {
	return uc.setActive(ctx, sc, id, false)
}

func (uc *usecase) setActive(ctx context.Context, sc model.Scope, id string, active bool) (model.Rule, error) {
	if !sc.CanOperate() {
		return model.Rule{}, rule.ErrPermissionDenied
	}

	cur, err := uc.detail(ctx, id)
	if err != nil {
		return model.Rule{}, err
	}
	if cur.Active == active {
		return cur, nil
	}

	next := cur
	next.Active = active
	next.UpdatedBy = sc.UserID
	updated, err := uc.write(ctx, "setActive", next, cur.Version)
	if err != nil {
		return model.Rule{}, err
	}

	uc.l.Infof(ctx, "rule %s active=%t by %s", updated.ID, active, sc.UserID)
	return updated, nil
}

func (uc *usecase) Detail(ctx context.Context, sc model.Scope, id string) (model.Rule, error) {
	return uc.detail(ctx, id)
}

func (uc *usecase) Get(ctx context.Context, sc model.Scope, ip rule.GetInput) (rule.GetOutput, error) {
	rules, pag, err := uc.repo.Get(ctx, repository.GetOptions{
		Filter: repository.Filter{
			Type:   ip.Filter.Type,
			Active: ip.Filter.Active,
		},
		PaginateQuery: ip.PaginateQuery,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.rule.usecase.Get.repo.Get: %v", err)
		return rule.GetOutput{}, err
	}
	return rule.GetOutput{Rules: rules, Paginator: pag}, nil
}

func (uc *usecase) History(ctx context.Context, sc model.Scope, id string) ([]model.RuleVersion, error) {
	versions, err := uc.repo.ListVersions(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, rule.ErrRuleNotFound
		}
		uc.l.Errorf(ctx, "internal.rule.usecase.History.repo.ListVersions: %v", err)
		return nil, err
	}
	return versions, nil
}

func (uc *usecase) ListActive(ctx context.Context) ([]model.Rule, error) {
	active := true
	rules, err := uc.repo.List(ctx, repository.ListOptions{Filter: repository.Filter{Active: &active}})
	if err != nil {
		uc.l.Errorf(ctx, "internal.rule.usecase.ListActive.repo.List: %v", err)
		return nil, err
	}
	rule.Sort(rules)
	return rules, nil
}

func (uc *usecase) SeedDefaults(ctx context.Context) (int, error) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.rule.usecase.SeedDefaults.repo.Count: %v", err)
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	added := 0
	for _, rl := range rule.DefaultRules() {
		rl.CreatedBy = string(model.ActorSystem)
		rl.UpdatedBy = rl.CreatedBy
		if _, err := uc.repo.Create(ctx, repository.CreateOptions{Rule: rl}); err != nil {
			uc.l.Errorf(ctx, "internal.rule.usecase.SeedDefaults.repo.Create: %v", err)
			return added, err
		}
		added++
	}

	uc.l.Infof(ctx, "seeded %d default rules", added)
	return added, nil
}

func (uc *usecase) detail(ctx context.Context, id string) (model.Rule, error) {
	rl, err := uc.repo.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Rule{}, rule.ErrRuleNotFound
		}
		uc.l.Errorf(ctx, "internal.rule.usecase.detail.repo.Detail: %v", err)
		return model.Rule{}, err
	}
	return rl, nil
}

func (uc *usecase) write(ctx context.Context, method string, rl model.Rule, expectedVersion int) (model.Rule, error) {
	updated, err := uc.repo.Update(ctx, repository.UpdateOptions{Rule: rl, ExpectedVersion: expectedVersion})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return model.Rule{}, rule.ErrRuleNotFound
		case errors.Is(err, repository.ErrConflict):
			uc.l.Warnf(ctx, "internal.rule.usecase.%s.repo.Update: %v", method, err)
			return model.Rule{}, rule.ErrConcurrentEdit
		}
		uc.l.Errorf(ctx, "internal.rule.usecase.%s.repo.Update: %v", method, err)
		return model.Rule{}, err
	}
	return updated, nil
}
