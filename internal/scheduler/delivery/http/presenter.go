package http

import (
	"ndr-srv/internal/model"
	"ndr-srv/internal/scheduler"
	"ndr-srv/pkg/paginator"
	"ndr-srv/pkg/response"
)

type getReq struct {
	Status string `form:"status"`
	paginator.PaginateQuery
}

func (r getReq) toInput() scheduler.GetInput {
	return scheduler.GetInput{Status: model.RunStatus(r.Status), PaginateQuery: r.PaginateQuery}
}

type runResp struct {
	ID            string             `json:"id"`
	Status        string             `json:"status"`
	Instance      string             `json:"instance"`
	StartedAt     *response.DateTime `json:"started_at"`
	DeadlineAt    *response.DateTime `json:"deadline_at"`
	FinishedAt    *response.DateTime `json:"finished_at,omitempty"`
	DurationMs    int64              `json:"duration_ms,omitempty"`
	RulesExecuted int                `json:"rules_executed"`
	Evaluated     int                `json:"evaluated"`
	Created       int                `json:"created"`
	Updated       int                `json:"updated"`
	AutoResolved  int                `json:"auto_resolved"`
	Failed        int                `json:"failed"`
	Skipped       int                `json:"skipped"`
	Error         string             `json:"error,omitempty"`
}

func newRunResp(r model.SchedulerRun) runResp {
	resp := runResp{
		ID:            r.ID,
		Status:        string(r.Status),
		Instance:      r.Instance,
		StartedAt:     response.NewDateTime(&r.StartedAt),
		DeadlineAt:    response.NewDateTime(&r.DeadlineAt),
		FinishedAt:    response.NewDateTime(r.FinishedAt),
		RulesExecuted: r.RulesExecuted,
		Evaluated:     r.Evaluated,
		Created:       r.Created,
		Updated:       r.Updated,
		AutoResolved:  r.AutoResolved,
		Failed:        r.Failed,
		Skipped:       r.Skipped,
		Error:         r.Error,
	}
	if r.FinishedAt != nil {
		resp.DurationMs = r.FinishedAt.Sub(r.StartedAt).Milliseconds()
	}
	return resp
}

type getResp struct {
	Items []runResp                   `json:"items"`
	Meta  paginator.PaginatorResponse `json:"meta"`
}

func newGetResp(o scheduler.GetOutput) getResp {
	items := make([]runResp, 0, len(o.Runs))
	for _, r := range o.Runs {
		items = append(items, newRunResp(r))
	}
	return getResp{Items: items, Meta: o.Paginator.ToResponse()}
}

type tickResp struct {
	Skipped bool     `json:"skipped"`
	Run     *runResp `json:"run,omitempty"`
}

func newTickResp(o scheduler.TickOutput) tickResp {
	resp := tickResp{Skipped: o.Skipped}
	if o.Run.ID != "" {
		r := newRunResp(o.Run)
		resp.Run = &r
	}
	return resp
}
