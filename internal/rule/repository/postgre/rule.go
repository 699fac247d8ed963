package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ndr-srv/internal/model"
	"ndr-srv/internal/rule/repository"
	"ndr-srv/pkg/paginator"
	postgresPkg "ndr-srv/pkg/postgre"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	pkgErrors "github.com/friendsofgo/errors"
)

func (r *implRepository) Create(ctx context.Context, opts repository.CreateOptions) (model.Rule, error) {
	rl := opts.Rule
	if rl.ID == "" {
		rl.ID = postgresPkg.NewUUID()
	} else if err := postgresPkg.IsUUID(rl.ID); err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Create.IsUUID: %v", err)
		return model.Rule{}, err
	}
	if rl.UpdatedBy == "" {
		rl.UpdatedBy = rl.CreatedBy
	}

	conds, err := marshalJSON(rl.Conditions)
	if err != nil {
		return model.Rule{}, pkgErrors.Wrap(err, "marshal conditions")
	}
	outcome, err := marshalJSON(rl.Outcome)
	if err != nil {
		return model.Rule{}, pkgErrors.Wrap(err, "marshal outcome")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Create.BeginTx: %v", err)
		return model.Rule{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := r.clock()
	var row ruleRow
	err = queries.Raw(`INSERT INTO rules (id, name, description, type, priority, active, conditions, outcome,
			version, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, 1, $9, $10, $11, $11)
		RETURNING `+ruleColumns,
		rl.ID, rl.Name, rl.Description, string(rl.Type), rl.Priority, rl.Active, conds, outcome,
		rl.CreatedBy, rl.UpdatedBy, now,
	).Bind(ctx, tx, &row)
	if err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Create.Insert: %v", err)
		return model.Rule{}, pkgErrors.Wrap(err, "insert rule")
	}

	created, err := row.toModel()
	if err != nil {
		return model.Rule{}, pkgErrors.Wrap(err, "decode rule")
	}
	if err := r.insertVersion(ctx, tx, created, created.CreatedBy); err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Create.insertVersion: %v", err)
		return model.Rule{}, err
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Create.Commit: %v", err)
		return model.Rule{}, err
	}
	return created, nil
}

func (r *implRepository) Update(ctx context.Context, opts repository.UpdateOptions) (model.Rule, error) {
	rl := opts.Rule
	if err := postgresPkg.IsUUID(rl.ID); err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Update.IsUUID: %v", err)
		return model.Rule{}, repository.ErrNotFound
	}

	conds, err := marshalJSON(rl.Conditions)
	if err != nil {
		return model.Rule{}, pkgErrors.Wrap(err, "marshal conditions")
	}
	outcome, err := marshalJSON(rl.Outcome)
	if err != nil {
		return model.Rule{}, pkgErrors.Wrap(err, "marshal outcome")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Update.BeginTx: %v", err)
		return model.Rule{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var row ruleRow
	err = queries.Raw(`UPDATE rules SET name = $1, description = NULLIF($2, ''), priority = $3, active = $4,
			conditions = $5, outcome = $6, updated_by = $7, updated_at = $8, version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING `+ruleColumns,
		rl.Name, rl.Description, rl.Priority, rl.Active, conds, outcome, rl.UpdatedBy, r.clock(),
		rl.ID, opts.ExpectedVersion,
	).Bind(ctx, tx, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Rule{}, r.missingOrConflict(ctx, rl.ID)
		}
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Update.Update: %v", err)
		return model.Rule{}, pkgErrors.Wrap(err, "update rule")
	}

	updated, err := row.toModel()
	if err != nil {
		return model.Rule{}, pkgErrors.Wrap(err, "decode rule")
	}
	if err := r.insertVersion(ctx, tx, updated, updated.UpdatedBy); err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Update.insertVersion: %v", err)
		return model.Rule{}, err
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Update.Commit: %v", err)
		return model.Rule{}, err
	}
	return updated, nil
}

func (r *implRepository) Detail(ctx context.Context, id string) (model.Rule, error) {
	if !postgresPkg.IsValidUUID(id) {
		return model.Rule{}, repository.ErrNotFound
	}

	var row ruleRow
	err := queries.Raw(`SELECT `+ruleColumns+` FROM rules WHERE id = $1`, id).Bind(ctx, r.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Rule{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Detail.Bind: %v", err)
		return model.Rule{}, pkgErrors.Wrap(err, "select rule")
	}
	return row.toModel()
}

func (r *implRepository) List(ctx context.Context, opts repository.ListOptions) ([]model.Rule, error) {
	where, args, err := r.buildWhere(ctx, opts.Filter)
	if err != nil {
		return nil, err
	}

	var rows []ruleRow
	err = queries.Raw(`SELECT `+ruleColumns+` FROM rules`+where+` ORDER BY priority ASC, seq ASC`, args...).
		Bind(ctx, r.db, &rows)
	if err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.List.Bind: %v", err)
		return nil, pkgErrors.Wrap(err, "list rules")
	}
	return toRules(rows)
}

func (r *implRepository) Get(ctx context.Context, opts repository.GetOptions) ([]model.Rule, paginator.Paginator, error) {
	where, args, err := r.buildWhere(ctx, opts.Filter)
	if err != nil {
		return nil, paginator.Paginator{}, err
	}

	var cnt struct {
		Total int64 `boil:"total"`
	}
	if err := queries.Raw(`SELECT COUNT(*) AS total FROM rules`+where, args...).Bind(ctx, r.db, &cnt); err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Get.Count: %v", err)
		return nil, paginator.Paginator{}, pkgErrors.Wrap(err, "count rules")
	}

	pq := opts.PaginateQuery
	pq.Adjust()
	q := fmt.Sprintf(`SELECT %s FROM rules%s ORDER BY priority ASC, seq ASC LIMIT %d OFFSET %d`,
		ruleColumns, where, pq.Limit, pq.Offset())

	var rows []ruleRow
	if err := queries.Raw(q, args...).Bind(ctx, r.db, &rows); err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Get.Bind: %v", err)
		return nil, paginator.Paginator{}, pkgErrors.Wrap(err, "get rules")
	}

	res, err := toRules(rows)
	if err != nil {
		return nil, paginator.Paginator{}, err
	}
	return res, paginator.Paginator{
		Total:       cnt.Total,
		Count:       int64(len(res)),
		PerPage:     pq.Limit,
		CurrentPage: pq.Page,
	}, nil
}

func (r *implRepository) ListVersions(ctx context.Context, ruleID string) ([]model.RuleVersion, error) {
	if _, err := r.Detail(ctx, ruleID); err != nil {
		return nil, err
	}

	var rows []ruleVersionRow
	err := queries.Raw(`SELECT rule_id, version, snapshot, changed_by, created_at
		FROM rule_versions WHERE rule_id = $1 ORDER BY version ASC`, ruleID).Bind(ctx, r.db, &rows)
	if err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.ListVersions.Bind: %v", err)
		return nil, pkgErrors.Wrap(err, "list rule versions")
	}

	res := make([]model.RuleVersion, 0, len(rows))
	for _, row := range rows {
		v, err := row.toModel()
		if err != nil {
			return nil, pkgErrors.Wrap(err, "decode rule version")
		}
		res = append(res, v)
	}
	return res, nil
}

func (r *implRepository) Count(ctx context.Context) (int64, error) {
	var cnt struct {
		Total int64 `boil:"total"`
	}
	if err := queries.Raw(`SELECT COUNT(*) AS total FROM rules`).Bind(ctx, r.db, &cnt); err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.Count.Bind: %v", err)
		return 0, pkgErrors.Wrap(err, "count rules")
	}
	return cnt.Total, nil
}

func (r *implRepository) insertVersion(ctx context.Context, exec boil.ContextExecutor, rl model.Rule, changedBy string) error {
	snapshot, err := marshalJSON(rl)
	if err != nil {
		return pkgErrors.Wrap(err, "marshal snapshot")
	}
	_, err = queries.Raw(`INSERT INTO rule_versions (rule_id, version, snapshot, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rl.ID, rl.Version, snapshot, changedBy, rl.UpdatedAt,
	).ExecContext(ctx, exec)
	return pkgErrors.Wrap(err, "insert rule version")
}

func (r *implRepository) missingOrConflict(ctx context.Context, id string) error {
	if _, err := r.Detail(ctx, id); err != nil {
		return err
	}
	return repository.ErrConflict
}

func toRules(rows []ruleRow) ([]model.Rule, error) {
	res := make([]model.Rule, 0, len(rows))
	for _, row := range rows {
		rl, err := row.toModel()
		if err != nil {
			return nil, pkgErrors.Wrap(err, "decode rule")
		}
		res = append(res, rl)
	}
	return res, nil
}
