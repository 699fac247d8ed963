package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr/repository"
	"ndr-srv/pkg/paginator"
	postgresPkg "ndr-srv/pkg/postgre"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	pkgErrors "github.com/friendsofgo/errors"
)

func (r *implRepository) Create(ctx context.Context, opts repository.CreateOptions) (model.NDR, error) {
	n := opts.NDR
	if n.ID == "" {
		n.ID = postgresPkg.NewUUID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.clock()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.Create.BeginTx: %v", err)
		return model.NDR{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var row ndrRow
	err = queries.Raw(`INSERT INTO ndrs (id, code, delivery_id, order_id, reason, confidence, rule_id, risk_score,
			priority, status, attempt_number, escalated, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8, $9, $10, $11, false, 1, $12, $12)
		RETURNING `+ndrColumns,
		n.ID, n.Code, n.DeliveryID, n.OrderID, string(n.Reason), n.Confidence, n.RuleID, n.RiskScore,
		string(n.Priority), string(n.Status), n.AttemptNumber, n.CreatedAt,
	).Bind(ctx, tx, &row)
	if err != nil {
		if postgresPkg.IsUniqueViolation(err) {
			return model.NDR{}, repository.ErrConflict
		}
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.Create.Insert: %v", err)
		return model.NDR{}, pkgErrors.Wrap(err, "insert ndr")
	}

	tr := opts.Transition
	tr.NDRID = row.ID
	if err := r.insertTransition(ctx, tx, tr); err != nil {
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.Create.insertTransition: %v", err)
		return model.NDR{}, err
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.Create.Commit: %v", err)
		return model.NDR{}, err
	}
	return row.toModel(), nil
}

func (r *implRepository) Update(ctx context.Context, opts repository.UpdateOptions) (model.NDR, error) {
	n := opts.NDR
	if !postgresPkg.IsValidUUID(n.ID) {
		return model.NDR{}, repository.ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.Update.BeginTx: %v", err)
		return model.NDR{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var row ndrRow
	err = queries.Raw(`UPDATE ndrs SET reason = $1, confidence = $2, rule_id = NULLIF($3, '')::uuid, risk_score = $4,
			priority = $5, status = $6, attempt_number = $7, escalated = $8, escalated_at = $9,
			resolved_at = $10, closed_at = $11, updated_at = $12, version = version + 1
		WHERE id = $13 AND version = $14
		RETURNING `+ndrColumns,
		string(n.Reason), n.Confidence, n.RuleID, n.RiskScore,
		string(n.Priority), string(n.Status), n.AttemptNumber, n.Escalated, n.EscalatedAt,
		n.ResolvedAt, n.ClosedAt, r.clock(),
		n.ID, opts.ExpectedVersion,
	).Bind(ctx, tx, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NDR{}, r.missingOrConflict(ctx, n.ID)
		}
		if postgresPkg.IsUniqueViolation(err) {
			return model.NDR{}, repository.ErrConflict
		}
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.Update.Update: %v", err)
		return model.NDR{}, pkgErrors.Wrap(err, "update ndr")
	}

	if opts.Transition != nil {
		tr := *opts.Transition
		tr.NDRID = row.ID
		if err := r.insertTransition(ctx, tx, tr); err != nil {
			r.l.Errorf(ctx, "internal.ndr.repository.postgres.Update.insertTransition: %v", err)
			return model.NDR{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.Update.Commit: %v", err)
		return model.NDR{}, err
	}
	return row.toModel(), nil
}

func (r *implRepository) Detail(ctx context.Context, id string) (model.NDR, error) {
	if !postgresPkg.IsValidUUID(id) {
		return model.NDR{}, repository.ErrNotFound
	}

	var row ndrRow
	err := queries.Raw(`SELECT `+ndrColumns+` FROM ndrs WHERE id = $1`, id).Bind(ctx, r.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NDR{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.Detail.Bind: %v", err)
		return model.NDR{}, pkgErrors.Wrap(err, "select ndr")
	}
	return row.toModel(), nil
}

func (r *implRepository) LatestByDelivery(ctx context.Context, deliveryID string) (model.NDR, error) {
	if !postgresPkg.IsValidUUID(deliveryID) {
		return model.NDR{}, repository.ErrNotFound
	}

	var row ndrRow
	err := queries.Raw(`SELECT `+ndrColumns+` FROM ndrs WHERE delivery_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		deliveryID,
	).Bind(ctx, r.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NDR{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.LatestByDelivery.Bind: %v", err)
		return model.NDR{}, pkgErrors.Wrap(err, "select latest ndr")
	}
	return row.toModel(), nil
}

func (r *implRepository) List(ctx context.Context, opts repository.ListOptions) ([]model.NDR, error) {
	where, args, err := r.buildWhere(ctx, opts.Filter)
	if err != nil {
		return nil, err
	}

	q := `SELECT ` + ndrColumns + ` FROM ndrs` + where + orderBy
	if opts.Limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, opts.Limit)
	}

	var rows []ndrRow
	if err := queries.Raw(q, args...).Bind(ctx, r.db, &rows); err != nil {
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.List.Bind: %v", err)
		return nil, pkgErrors.Wrap(err, "list ndrs")
	}
	return toNDRs(rows), nil
}

func (r *implRepository) Get(ctx context.Context, opts repository.GetOptions) ([]model.NDR, paginator.Paginator, error) {
	where, args, err := r.buildWhere(ctx, opts.Filter)
	if err != nil {
		return nil, paginator.Paginator{}, err
	}

	var cnt struct {
		Total int64 `boil:"total"`
	}
	if err := queries.Raw(`SELECT COUNT(*) AS total FROM ndrs`+where, args...).Bind(ctx, r.db, &cnt); err != nil {
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.Get.Count: %v", err)
		return nil, paginator.Paginator{}, pkgErrors.Wrap(err, "count ndrs")
	}

	pq := opts.PaginateQuery
	pq.Adjust()
	q := fmt.Sprintf(`SELECT %s FROM ndrs%s%s LIMIT %d OFFSET %d`, ndrColumns, where, orderBy, pq.Limit, pq.Offset())

	var rows []ndrRow
	if err := queries.Raw(q, args...).Bind(ctx, r.db, &rows); err != nil {
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.Get.Bind: %v", err)
		return nil, paginator.Paginator{}, pkgErrors.Wrap(err, "get ndrs")
	}

	res := toNDRs(rows)
	return res, paginator.Paginator{
		Total:       cnt.Total,
		Count:       int64(len(res)),
		PerPage:     pq.Limit,
		CurrentPage: pq.Page,
	}, nil
}

func (r *implRepository) ListTransitions(ctx context.Context, ndrID string) ([]model.Transition, error) {
	if _, err := r.Detail(ctx, ndrID); err != nil {
		return nil, err
	}

	var rows []transitionRow
	err := queries.Raw(`SELECT `+transitionColumns+` FROM ndr_transitions WHERE ndr_id = $1 ORDER BY created_at ASC, seq ASC`,
		ndrID,
	).Bind(ctx, r.db, &rows)
	if err != nil {
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.ListTransitions.Bind: %v", err)
		return nil, pkgErrors.Wrap(err, "list transitions")
	}

	res := make([]model.Transition, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toModel())
	}
	return res, nil
}

type statsRow struct {
	Status    string `boil:"status"`
	Priority  string `boil:"priority"`
	Reason    string `boil:"reason"`
	Escalated bool   `boil:"escalated"`
	Total     int    `boil:"total"`
}

// Stats counts every record by status. Priority, reason and escalation counts cover active records only.
func (r *implRepository) Stats(ctx context.Context) (model.NDRStats, error) {
	var rows []statsRow
	err := queries.Raw(`SELECT status, priority, reason, escalated, COUNT(*) AS total
		FROM ndrs GROUP BY status, priority, reason, escalated`).Bind(ctx, r.db, &rows)
	if err != nil {
		r.l.Errorf(ctx, "internal.ndr.repository.postgres.Stats.Bind: %v", err)
		return model.NDRStats{}, pkgErrors.Wrap(err, "ndr stats")
	}

	st := model.NewNDRStats()
	for _, row := range rows {
		status := model.NDRStatus(row.Status)
		st.Total += row.Total
		st.ByStatus[status] += row.Total
		if status.IsTerminal() {
			continue
		}
		st.Active += row.Total
		st.ByPriority[model.Priority(row.Priority)] += row.Total
		st.ByReason[model.Reason(row.Reason)] += row.Total
		if row.Escalated {
			st.Escalated += row.Total
		}
	}
	return st, nil
}

func (r *implRepository) insertTransition(ctx context.Context, exec boil.ContextExecutor, tr model.Transition) error {
	if tr.ID == "" {
		tr.ID = postgresPkg.NewUUID()
	}
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = r.clock()
	}
	_, err := queries.Raw(`INSERT INTO ndr_transitions (id, ndr_id, from_status, to_status, actor_type, actor_id,
			action_id, note, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, '')::uuid, NULLIF($8, ''), $9)`,
		tr.ID, tr.NDRID, string(tr.From), string(tr.To), string(tr.Actor.Type), tr.Actor.ID,
		tr.ActionID, tr.Note, tr.CreatedAt,
	).ExecContext(ctx, exec)
	return pkgErrors.Wrap(err, "insert transition")
}

func (r *implRepository) missingOrConflict(ctx context.Context, id string) error {
	if _, err := r.Detail(ctx, id); err != nil {
		return err
	}
	return repository.ErrConflict
}
