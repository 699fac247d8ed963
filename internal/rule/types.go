package rule

import (
	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
)

type CreateInput struct {
	Name        string
	Description string
	Type        model.RuleType
	Priority    int
	Active      bool
	Conditions  []model.Condition
	Outcome     model.RuleOutcome
}

// UpdateInput changes only the non-nil fields.
type UpdateInput struct {
	ID          string
	Name        *string
	Description *string
	Priority    *int
	Conditions  []model.Condition
	Outcome     *model.RuleOutcome
}

type Filter struct {
	Type   model.RuleType
	Active *bool
}

type GetInput struct {
	Filter        Filter
	PaginateQuery paginator.PaginateQuery
}

type GetOutput struct {
	Rules     []model.Rule
	Paginator paginator.Paginator
}
