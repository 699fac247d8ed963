package postgres

import (
	"time"

	"ndr-srv/internal/model"

	"github.com/aarondl/null/v8"
)

const runColumns = `id, status, instance, started_at, deadline_at, finished_at, rules_executed, evaluated,
	created, updated, auto_resolved, failed, skipped, error`

type runRow struct {
	ID            string      `boil:"id"`
	Status        string      `boil:"status"`
	Instance      string      `boil:"instance"`
	StartedAt     time.Time   `boil:"started_at"`
	DeadlineAt    time.Time   `boil:"deadline_at"`
	FinishedAt    null.Time   `boil:"finished_at"`
	RulesExecuted int         `boil:"rules_executed"`
	Evaluated     int         `boil:"evaluated"`
	Created       int         `boil:"created"`
	Updated       int         `boil:"updated"`
	AutoResolved  int         `boil:"auto_resolved"`
	Failed        int         `boil:"failed"`
	Skipped       int         `boil:"skipped"`
	Error         null.String `boil:"error"`
}

func (row runRow) toModel() model.SchedulerRun {
	return model.SchedulerRun{
		ID:            row.ID,
		Status:        model.RunStatus(row.Status),
		Instance:      row.Instance,
		StartedAt:     row.StartedAt,
		DeadlineAt:    row.DeadlineAt,
		FinishedAt:    row.FinishedAt.Ptr(),
		RulesExecuted: row.RulesExecuted,
		Evaluated:     row.Evaluated,
		Created:       row.Created,
		Updated:       row.Updated,
		AutoResolved:  row.AutoResolved,
		Failed:        row.Failed,
		Skipped:       row.Skipped,
		Error:         row.Error.String,
	}
}

func toRuns(rows []runRow) []model.SchedulerRun {
	res := make([]model.SchedulerRun, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toModel())
	}
	return res
}
