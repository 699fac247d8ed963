package repository

import (
	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
)

type Filter struct {
	IDs    []string
	Type   model.RuleType
	Active *bool
}

type CreateOptions struct {
	Rule model.Rule
}

type UpdateOptions struct {
	Rule            model.Rule
	ExpectedVersion int
}

type ListOptions struct {
	Filter Filter
}

type GetOptions struct {
	Filter        Filter
	PaginateQuery paginator.PaginateQuery
}
