package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ndr-srv/internal/action/repository"
	"ndr-srv/internal/model"
	"ndr-srv/pkg/paginator"
	postgresPkg "ndr-srv/pkg/postgre"

	"github.com/aarondl/sqlboiler/v4/queries"
	pkgErrors "github.com/friendsofgo/errors"
)

func (r *implRepository) Create(ctx context.Context, opts repository.CreateOptions) (model.Action, error) {
	a := opts.Action
	if a.ID == "" {
		a.ID = postgresPkg.NewUUID()
	}

	cfg, err := marshalJSON(a.Config)
	if err != nil {
		return model.Action{}, pkgErrors.Wrap(err, "marshal config")
	}

	var row actionRow
	err = queries.Raw(`INSERT INTO actions (id, ndr_id, kind, config, proposed_by_type, proposed_by_id,
			approval_state, execution_state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING `+actionColumns,
		a.ID, a.NDRID, string(a.Kind), cfg, string(a.ProposedBy.Type), a.ProposedBy.ID,
		string(a.ApprovalState), string(a.ExecutionState), r.clock(),
	).Bind(ctx, r.db, &row)
	if err != nil {
		if postgresPkg.IsUniqueViolation(err) {
			return model.Action{}, repository.ErrConflict
		}
		r.l.Errorf(ctx, "internal.action.repository.postgres.Create.Insert: %v", err)
		return model.Action{}, pkgErrors.Wrap(err, "insert action")
	}
	return row.toModel()
}

func (r *implRepository) Decide(ctx context.Context, opts repository.DecideOptions) (model.Action, error) {
	if !postgresPkg.IsValidUUID(opts.ID) {
		return model.Action{}, repository.ErrNotFound
	}

	var row actionRow
	err := queries.Raw(`UPDATE actions SET approval_state = $1, decided_by = $2, decision_note = NULLIF($3, ''),
			decided_at = $4, updated_at = $5
		WHERE id = $6 AND approval_state = $7
		RETURNING `+actionColumns,
		string(opts.State), opts.DecidedBy, opts.Note, opts.DecidedAt, r.clock(),
		opts.ID, string(model.ApprovalPending),
	).Bind(ctx, r.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, err := r.Detail(ctx, opts.ID); err != nil {
				return model.Action{}, err
			}
			return model.Action{}, repository.ErrConflict
		}
		r.l.Errorf(ctx, "internal.action.repository.postgres.Decide.Update: %v", err)
		return model.Action{}, pkgErrors.Wrap(err, "decide action")
	}
	return row.toModel()
}

func (r *implRepository) MarkExecuted(ctx context.Context, opts repository.MarkExecutedOptions) (model.Action, error) {
	if !postgresPkg.IsValidUUID(opts.ID) {
		return model.Action{}, repository.ErrNotFound
	}

	var row actionRow
	err := queries.Raw(`UPDATE actions SET execution_state = $1, execution_error = NULLIF($2, ''), executed_at = $3,
			updated_at = $4
		WHERE id = $5
		RETURNING `+actionColumns,
		string(opts.State), opts.Error, opts.At, r.clock(), opts.ID,
	).Bind(ctx, r.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Action{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.action.repository.postgres.MarkExecuted.Update: %v", err)
		return model.Action{}, pkgErrors.Wrap(err, "mark action executed")
	}
	return row.toModel()
}

func (r *implRepository) Detail(ctx context.Context, id string) (model.Action, error) {
	if !postgresPkg.IsValidUUID(id) {
		return model.Action{}, repository.ErrNotFound
	}

	var row actionRow
	err := queries.Raw(`SELECT `+actionColumns+` FROM actions WHERE id = $1`, id).Bind(ctx, r.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Action{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.action.repository.postgres.Detail.Bind: %v", err)
		return model.Action{}, pkgErrors.Wrap(err, "select action")
	}
	return row.toModel()
}

func (r *implRepository) FindPending(ctx context.Context, ndrID string, kind model.ActionKind) (model.Action, error) {
	if !postgresPkg.IsValidUUID(ndrID) {
		return model.Action{}, repository.ErrNotFound
	}

	var row actionRow
	err := queries.Raw(`SELECT `+actionColumns+` FROM actions
		WHERE ndr_id = $1 AND kind = $2 AND approval_state = $3 LIMIT 1`,
		ndrID, string(kind), string(model.ApprovalPending),
	).Bind(ctx, r.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Action{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.action.repository.postgres.FindPending.Bind: %v", err)
		return model.Action{}, pkgErrors.Wrap(err, "find pending action")
	}
	return row.toModel()
}

func (r *implRepository) Get(ctx context.Context, opts repository.GetOptions) ([]model.Action, paginator.Paginator, error) {
	where, args := buildWhere(opts.Filter)

	var cnt struct {
		Total int64 `boil:"total"`
	}
	if err := queries.Raw(`SELECT COUNT(*) AS total FROM actions`+where, args...).Bind(ctx, r.db, &cnt); err != nil {
		r.l.Errorf(ctx, "internal.action.repository.postgres.Get.Count: %v", err)
		return nil, paginator.Paginator{}, pkgErrors.Wrap(err, "count actions")
	}

	pq := opts.PaginateQuery
	pq.Adjust()
	q := fmt.Sprintf(`SELECT %s FROM actions%s ORDER BY created_at DESC, id ASC LIMIT %d OFFSET %d`,
		actionColumns, where, pq.Limit, pq.Offset())

	var rows []actionRow
	if err := queries.Raw(q, args...).Bind(ctx, r.db, &rows); err != nil {
		r.l.Errorf(ctx, "internal.action.repository.postgres.Get.Bind: %v", err)
		return nil, paginator.Paginator{}, pkgErrors.Wrap(err, "get actions")
	}

	res := make([]model.Action, 0, len(rows))
	for _, row := range rows {
		a, err := row.toModel()
		if err != nil {
			return nil, paginator.Paginator{}, pkgErrors.Wrap(err, "decode action")
		}
		res = append(res, a)
	}
	return res, paginator.Paginator{
		Total:       cnt.Total,
		Count:       int64(len(res)),
		PerPage:     pq.Limit,
		CurrentPage: pq.Page,
	}, nil
}

func (r *implRepository) CountPending(ctx context.Context) (int64, error) {
	var cnt struct {
		Total int64 `boil:"total"`
	}
	err := queries.Raw(`SELECT COUNT(*) AS total FROM actions WHERE approval_state = $1`,
		string(model.ApprovalPending),
	).Bind(ctx, r.db, &cnt)
	if err != nil {
		r.l.Errorf(ctx, "internal.action.repository.postgres.CountPending.Bind: %v", err)
		return 0, pkgErrors.Wrap(err, "count pending actions")
	}
	return cnt.Total, nil
}

func (r *implRepository) CancelPending(ctx context.Context, opts repository.CancelPendingOptions) ([]model.Action, error) {
	if !postgresPkg.IsValidUUID(opts.NDRID) {
		return nil, nil
	}

	var rows []actionRow
	err := queries.Raw(`UPDATE actions SET approval_state = $1, decided_by = $2, decision_note = NULLIF($3, ''),
			decided_at = $4, updated_at = $5
		WHERE ndr_id = $6 AND approval_state = $7
		RETURNING `+actionColumns,
		string(model.ApprovalRejected), opts.DecidedBy, opts.Note, opts.At, r.clock(),
		opts.NDRID, string(model.ApprovalPending),
	).Bind(ctx, r.db, &rows)
	if err != nil {
		r.l.Errorf(ctx, "internal.action.repository.postgres.CancelPending.Update: %v", err)
		return nil, pkgErrors.Wrap(err, "cancel pending actions")
	}

	res := make([]model.Action, 0, len(rows))
	for _, row := range rows {
		a, err := row.toModel()
		if err != nil {
			return nil, pkgErrors.Wrap(err, "decode action")
		}
		res = append(res, a)
	}
	return res, nil
}
