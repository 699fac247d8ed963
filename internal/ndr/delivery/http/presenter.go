package http

import (
	"strings"
	"time"

	"ndr-srv/internal/action"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	"ndr-srv/pkg/paginator"
	"ndr-srv/pkg/response"
)

type getReq struct {
	Status     string `form:"status"`
	Priority   string `form:"priority"`
	Reason     string `form:"reason"`
	DeliveryID string `form:"delivery_id"`
	Escalated  *bool  `form:"escalated"`
	paginator.PaginateQuery
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r getReq) toInput() (ndr.GetInput, bool) {
	f := ndr.Filter{DeliveryID: r.DeliveryID, Escalated: r.Escalated}
	for _, s := range splitCSV(r.Status) {
		st := model.NDRStatus(s)
		if !st.IsValid() {
			return ndr.GetInput{}, false
		}
		f.Statuses = append(f.Statuses, st)
	}
	for _, s := range splitCSV(r.Priority) {
		p := model.Priority(s)
		if p.Rank() == 0 {
			return ndr.GetInput{}, false
		}
		f.Priorities = append(f.Priorities, p)
	}
	for _, s := range splitCSV(r.Reason) {
		rs := model.Reason(s)
		if !rs.IsValid() {
			return ndr.GetInput{}, false
		}
		f.Reasons = append(f.Reasons, rs)
	}
	return ndr.GetInput{Filter: f, PaginateQuery: r.PaginateQuery}, true
}

type transitionReq struct {
	To      string `json:"to" binding:"required"`
	Note    string `json:"note"`
	Version int    `json:"version"`
}

func (r transitionReq) toInput(id string) ndr.ManualTransitionInput {
	return ndr.ManualTransitionInput{
		ID:              id,
		To:              model.NDRStatus(strings.ToUpper(r.To)),
		Note:            r.Note,
		ExpectedVersion: r.Version,
	}
}

type closeBatchReq struct {
	OlderThan string `json:"older_than"`
	Limit     int    `json:"limit"`
}

const defaultCloseGrace = 72 * time.Hour

func (r closeBatchReq) toInput() (ndr.CloseBatchInput, bool) {
	grace := defaultCloseGrace
	if r.OlderThan != "" {
		d, err := time.ParseDuration(r.OlderThan)
		if err != nil || d < 0 {
			return ndr.CloseBatchInput{}, false
		}
		grace = d
	}
	return ndr.CloseBatchInput{OlderThan: grace, Limit: r.Limit}, true
}

type ndrResp struct {
	ID            string             `json:"id"`
	Code          string             `json:"code"`
	DeliveryID    string             `json:"delivery_id"`
	OrderID       string             `json:"order_id"`
	Reason        string             `json:"reason"`
	Confidence    float64            `json:"confidence"`
	RuleID        string             `json:"rule_id,omitempty"`
	RiskScore     int                `json:"risk_score"`
	Priority      string             `json:"priority"`
	Status        string             `json:"status"`
	AttemptNumber int                `json:"attempt_number"`
	Escalated     bool               `json:"escalated"`
	EscalatedAt   *response.DateTime `json:"escalated_at,omitempty"`
	Version       int                `json:"version"`
	CreatedAt     *response.DateTime `json:"created_at"`
	UpdatedAt     *response.DateTime `json:"updated_at"`
	ResolvedAt    *response.DateTime `json:"resolved_at,omitempty"`
	ClosedAt      *response.DateTime `json:"closed_at,omitempty"`
}

func newNDRResp(n model.NDR) ndrResp {
	return ndrResp{
		ID:            n.ID,
		Code:          n.Code,
		DeliveryID:    n.DeliveryID,
		OrderID:       n.OrderID,
		Reason:        string(n.Reason),
		Confidence:    n.Confidence,
		RuleID:        n.RuleID,
		RiskScore:     n.RiskScore,
		Priority:      string(n.Priority),
		Status:        string(n.Status),
		AttemptNumber: n.AttemptNumber,
		Escalated:     n.Escalated,
		EscalatedAt:   response.NewDateTime(n.EscalatedAt),
		Version:       n.Version,
		CreatedAt:     response.NewDateTime(&n.CreatedAt),
		UpdatedAt:     response.NewDateTime(&n.UpdatedAt),
		ResolvedAt:    response.NewDateTime(n.ResolvedAt),
		ClosedAt:      response.NewDateTime(n.ClosedAt),
	}
}

type getResp struct {
	Items []ndrResp                   `json:"items"`
	Meta  paginator.PaginatorResponse `json:"meta"`
}

func newGetResp(o ndr.GetOutput) getResp {
	items := make([]ndrResp, 0, len(o.NDRs))
	for _, n := range o.NDRs {
		items = append(items, newNDRResp(n))
	}
	return getResp{Items: items, Meta: o.Paginator.ToResponse()}
}

type transitionResp struct {
	ID        string             `json:"id"`
	From      string             `json:"from"`
	To        string             `json:"to"`
	Actor     model.Actor        `json:"actor"`
	ActionID  string             `json:"action_id,omitempty"`
	Note      string             `json:"note,omitempty"`
	CreatedAt *response.DateTime `json:"created_at"`
}

func newHistoryResp(trs []model.Transition) []transitionResp {
	out := make([]transitionResp, 0, len(trs))
	for _, t := range trs {
		out = append(out, transitionResp{
			ID:        t.ID,
			From:      string(t.From),
			To:        string(t.To),
			Actor:     t.Actor,
			ActionID:  t.ActionID,
			Note:      t.Note,
			CreatedAt: response.NewDateTime(&t.CreatedAt),
		})
	}
	return out
}

// pendingApprovalResp answers a manual transition that was queued behind the action gate.
type pendingApprovalResp struct {
	ActionID      string `json:"action_id"`
	Kind          string `json:"kind"`
	ApprovalState string `json:"approval_state"`
	Duplicate     bool   `json:"duplicate"`
}

func newPendingApprovalResp(o action.ProposeOutput) pendingApprovalResp {
	return pendingApprovalResp{
		ActionID:      o.Action.ID,
		Kind:          string(o.Action.Kind),
		ApprovalState: string(o.Action.ApprovalState),
		Duplicate:     o.Duplicate,
	}
}

type closeBatchResp struct {
	Closed int `json:"closed"`
	Failed int `json:"failed"`
}
