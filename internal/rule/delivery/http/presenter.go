package http

import (
	"ndr-srv/internal/model"
	"ndr-srv/internal/rule"
	"ndr-srv/pkg/paginator"
	"ndr-srv/pkg/response"
)

type createReq struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Type        string            `json:"type" binding:"required"`
	Priority    int               `json:"priority"`
	Active      *bool             `json:"active"`
	Conditions  []model.Condition `json:"conditions" binding:"required"`
	Outcome     model.RuleOutcome `json:"outcome"`
}

func (r createReq) toInput() rule.CreateInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return rule.CreateInput{
		Name:        r.Name,
		Description: r.Description,
		Type:        model.RuleType(r.Type),
		Priority:    r.Priority,
		Active:      active,
		Conditions:  r.Conditions,
		Outcome:     r.Outcome,
	}
}

type updateReq struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Priority    *int               `json:"priority"`
	Conditions  []model.Condition  `json:"conditions"`
	Outcome     *model.RuleOutcome `json:"outcome"`
}

func (r updateReq) toInput(id string) rule.UpdateInput {
	return rule.UpdateInput{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Priority:    r.Priority,
		Conditions:  r.Conditions,
		Outcome:     r.Outcome,
	}
}

type getReq struct {
	Type   string `form:"type"`
	Active *bool  `form:"active"`
	paginator.PaginateQuery
}

func (r getReq) toInput() rule.GetInput {
	return rule.GetInput{
		Filter:        rule.Filter{Type: model.RuleType(r.Type), Active: r.Active},
		PaginateQuery: r.PaginateQuery,
	}
}

type ruleResp struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Type        string             `json:"type"`
	Priority    int                `json:"priority"`
	Active      bool               `json:"active"`
	Conditions  []model.Condition  `json:"conditions"`
	Outcome     model.RuleOutcome  `json:"outcome"`
	Version     int                `json:"version"`
	UpdatedBy   string             `json:"updated_by"`
	CreatedAt   *response.DateTime `json:"created_at"`
	UpdatedAt   *response.DateTime `json:"updated_at"`
}

func (h handler) newRuleResp(rl model.Rule) ruleResp {
	return ruleResp{
		ID:          rl.ID,
		Name:        rl.Name,
		Description: rl.Description,
		Type:        string(rl.Type),
		Priority:    rl.Priority,
		Active:      rl.Active,
		Conditions:  rl.Conditions,
		Outcome:     rl.Outcome,
		Version:     rl.Version,
		UpdatedBy:   rl.UpdatedBy,
		CreatedAt:   response.NewDateTime(&rl.CreatedAt),
		UpdatedAt:   response.NewDateTime(&rl.UpdatedAt),
	}
}

type getResp struct {
	Items []ruleResp                  `json:"items"`
	Meta  paginator.PaginatorResponse `json:"meta"`
}

func (h handler) newGetResp(o rule.GetOutput) getResp {
	items := make([]ruleResp, 0, len(o.Rules))
	for _, rl := range o.Rules {
		items = append(items, h.newRuleResp(rl))
	}
	return getResp{Items: items, Meta: o.Paginator.ToResponse()}
}

type versionResp struct {
	Version   int                `json:"version"`
	ChangedBy string             `json:"changed_by"`
	CreatedAt *response.DateTime `json:"created_at"`
	Snapshot  ruleResp           `json:"snapshot"`
}

func (h handler) newVersionsResp(vs []model.RuleVersion) []versionResp {
	out := make([]versionResp, 0, len(vs))
	for _, v := range vs {
		out = append(out, versionResp{
			Version:   v.Version,
			ChangedBy: v.ChangedBy,
			CreatedAt: response.NewDateTime(&v.CreatedAt),
			Snapshot:  h.newRuleResp(v.Snapshot),
		})
	}
	return out
}
