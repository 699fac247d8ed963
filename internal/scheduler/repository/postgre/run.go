package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/scheduler/repository"
	"ndr-srv/pkg/paginator"
	postgresPkg "ndr-srv/pkg/postgre"

	"github.com/aarondl/sqlboiler/v4/queries"
	pkgErrors "github.com/friendsofgo/errors"
)

// Begin relies on the partial unique index scheduler_runs_one_running so two
// instances racing for the same tick cannot both insert a running row.
func (r *implRepository) Begin(ctx context.Context, opts repository.BeginOptions) (model.SchedulerRun, error) {
	var row runRow
	err := queries.Raw(`INSERT INTO scheduler_runs (id, status, instance, started_at, deadline_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+runColumns,
		postgresPkg.NewUUID(), string(model.RunStatusRunning), opts.Instance, opts.StartedAt, opts.DeadlineAt,
	).Bind(ctx, r.db, &row)
	if err != nil {
		if postgresPkg.IsUniqueViolation(err) {
			return model.SchedulerRun{}, repository.ErrConflict
		}
		r.l.Errorf(ctx, "internal.scheduler.repository.postgres.Begin.Insert: %v", err)
		return model.SchedulerRun{}, pkgErrors.Wrap(err, "insert scheduler run")
	}
	return row.toModel(), nil
}

func (r *implRepository) Finish(ctx context.Context, opts repository.FinishOptions) (model.SchedulerRun, error) {
	if !postgresPkg.IsValidUUID(opts.ID) {
		return model.SchedulerRun{}, repository.ErrNotFound
	}

	c := opts.Counters
	var row runRow
	err := queries.Raw(`UPDATE scheduler_runs SET status = $1, finished_at = $2, error = NULLIF($3, ''),
			rules_executed = $4, evaluated = $5, created = $6, updated = $7, auto_resolved = $8, failed = $9, skipped = $10
		WHERE id = $11 AND status = $12
		RETURNING `+runColumns,
		string(opts.Status), opts.FinishedAt, opts.Error,
		c.RulesExecuted, c.Evaluated, c.Created, c.Updated, c.AutoResolved, c.Failed, c.Skipped,
		opts.ID, string(model.RunStatusRunning),
	).Bind(ctx, r.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, derr := r.Detail(ctx, opts.ID); derr != nil {
				return model.SchedulerRun{}, derr
			}
			return model.SchedulerRun{}, repository.ErrConflict
		}
		r.l.Errorf(ctx, "internal.scheduler.repository.postgres.Finish.Update: %v", err)
		return model.SchedulerRun{}, pkgErrors.Wrap(err, "finish scheduler run")
	}
	return row.toModel(), nil
}

func (r *implRepository) ReapExpired(ctx context.Context, now time.Time, reason string) ([]model.SchedulerRun, error) {
	var rows []runRow
	err := queries.Raw(`UPDATE scheduler_runs SET status = $1, finished_at = $2, error = $3
		WHERE status = $4 AND deadline_at < $2
		RETURNING `+runColumns,
		string(model.RunStatusFailed), now, reason, string(model.RunStatusRunning),
	).Bind(ctx, r.db, &rows)
	if err != nil {
		r.l.Errorf(ctx, "internal.scheduler.repository.postgres.ReapExpired.Update: %v", err)
		return nil, pkgErrors.Wrap(err, "reap scheduler runs")
	}
	return toRuns(rows), nil
}

func (r *implRepository) Running(ctx context.Context) (model.SchedulerRun, error) {
	return r.one(ctx, "Running", `SELECT `+runColumns+` FROM scheduler_runs WHERE status = $1 LIMIT 1`, string(model.RunStatusRunning))
}

func (r *implRepository) Latest(ctx context.Context) (model.SchedulerRun, error) {
	return r.one(ctx, "Latest", `SELECT `+runColumns+` FROM scheduler_runs ORDER BY started_at DESC LIMIT 1`)
}

func (r *implRepository) Detail(ctx context.Context, id string) (model.SchedulerRun, error) {
	if !postgresPkg.IsValidUUID(id) {
		return model.SchedulerRun{}, repository.ErrNotFound
	}
	return r.one(ctx, "Detail", `SELECT `+runColumns+` FROM scheduler_runs WHERE id = $1`, id)
}

func (r *implRepository) Get(ctx context.Context, opts repository.GetOptions) ([]model.SchedulerRun, paginator.Paginator, error) {
	where := ""
	var args []any
	if opts.Status != "" {
		where = ` WHERE status = $1`
		args = append(args, string(opts.Status))
	}

	var cnt struct {
		Total int64 `boil:"total"`
	}
	if err := queries.Raw(`SELECT COUNT(*) AS total FROM scheduler_runs`+where, args...).Bind(ctx, r.db, &cnt); err != nil {
		r.l.Errorf(ctx, "internal.scheduler.repository.postgres.Get.Count: %v", err)
		return nil, paginator.Paginator{}, pkgErrors.Wrap(err, "count scheduler runs")
	}

	pq := opts.PaginateQuery
	pq.Adjust()
	q := fmt.Sprintf(`SELECT %s FROM scheduler_runs%s ORDER BY started_at DESC LIMIT %d OFFSET %d`, runColumns, where, pq.Limit, pq.Offset())

	var rows []runRow
	if err := queries.Raw(q, args...).Bind(ctx, r.db, &rows); err != nil {
		r.l.Errorf(ctx, "internal.scheduler.repository.postgres.Get.Bind: %v", err)
		return nil, paginator.Paginator{}, pkgErrors.Wrap(err, "get scheduler runs")
	}

	res := toRuns(rows)
	return res, paginator.Paginator{
		Total:       cnt.Total,
		Count:       int64(len(res)),
		PerPage:     pq.Limit,
		CurrentPage: pq.Page,
	}, nil
}

func (r *implRepository) one(ctx context.Context, method, q string, args ...any) (model.SchedulerRun, error) {
	var row runRow
	if err := queries.Raw(q, args...).Bind(ctx, r.db, &row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SchedulerRun{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.scheduler.repository.postgres.%s.Bind: %v", method, err)
		return model.SchedulerRun{}, pkgErrors.Wrap(err, "get scheduler run")
	}
	return row.toModel(), nil
}
