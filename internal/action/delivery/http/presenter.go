package http

import (
	"ndr-srv/internal/action"
	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
	"ndr-srv/pkg/response"
)

type decideReq struct {
	Note string `json:"note"`
}

type getReq struct {
	NDRID         string `form:"ndr_id"`
	Kind          string `form:"kind"`
	ApprovalState string `form:"approval_state"`
	paginator.PaginateQuery
}

func (r getReq) validate() bool {
	if r.Kind != "" && !model.ActionKind(r.Kind).IsValid() {
		return false
	}
	switch model.ApprovalState(r.ApprovalState) {
	case "", model.ApprovalPending, model.ApprovalApproved, model.ApprovalRejected, model.ApprovalAutoApproved:
		return true
	}
	return false
}

func (r getReq) toInput() action.GetInput {
	return action.GetInput{
		Filter: action.Filter{
			NDRID:         r.NDRID,
			Kind:          model.ActionKind(r.Kind),
			ApprovalState: model.ApprovalState(r.ApprovalState),
		},
		PaginateQuery: r.PaginateQuery,
	}
}

type actionResp struct {
	ID             string             `json:"id"`
	NDRID          string             `json:"ndr_id"`
	Kind           string             `json:"kind"`
	Config         model.ActionConfig `json:"config"`
	ProposedBy     model.Actor        `json:"proposed_by"`
	ApprovalState  string             `json:"approval_state"`
	ExecutionState string             `json:"execution_state"`
	DecidedBy      string             `json:"decided_by,omitempty"`
	DecisionNote   string             `json:"decision_note,omitempty"`
	DecidedAt      *response.DateTime `json:"decided_at,omitempty"`
	ExecutedAt     *response.DateTime `json:"executed_at,omitempty"`
	ExecutionError string             `json:"execution_error,omitempty"`
	CreatedAt      *response.DateTime `json:"created_at"`
}

func newActionResp(a model.Action) actionResp {
	return actionResp{
		ID:             a.ID,
		NDRID:          a.NDRID,
		Kind:           string(a.Kind),
		Config:         a.Config,
		ProposedBy:     a.ProposedBy,
		ApprovalState:  string(a.ApprovalState),
		ExecutionState: string(a.ExecutionState),
		DecidedBy:      a.DecidedBy,
		DecisionNote:   a.DecisionNote,
		DecidedAt:      response.NewDateTime(a.DecidedAt),
		ExecutedAt:     response.NewDateTime(a.ExecutedAt),
		ExecutionError: a.ExecutionError,
		CreatedAt:      response.NewDateTime(&a.CreatedAt),
	}
}

type getResp struct {
	Items []actionResp                `json:"items"`
	Meta  paginator.PaginatorResponse `json:"meta"`
}

func newGetResp(o action.GetOutput) getResp {
	items := make([]actionResp, 0, len(o.Actions))
	for _, a := range o.Actions {
		items = append(items, newActionResp(a))
	}
	return getResp{Items: items, Meta: o.Paginator.ToResponse()}
}

type pendingCountResp struct {
	Pending int64 `json:"pending"`
}
