package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ndr-srv/internal/model"
	"ndr-srv/internal/outreach/repository"
	postgresPkg "ndr-srv/pkg/postgre"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/queries"
	pkgErrors "github.com/friendsofgo/errors"
)

// CreateAttempt takes a transaction scoped advisory lock on the NDR id so
// concurrent sends for one NDR get consecutive numbers. The unique
// (ndr_id, attempt_number) index backs it up.
func (r *implRepository) CreateAttempt(ctx context.Context, opts repository.CreateAttemptOptions) (model.OutreachAttempt, error) {
	if !postgresPkg.IsValidUUID(opts.NDRID) {
		return model.OutreachAttempt{}, repository.ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "internal.outreach.repository.postgres.CreateAttempt.BeginTx: %v", err)
		return model.OutreachAttempt{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := queries.Raw(`SELECT pg_advisory_xact_lock(hashtext($1))`, opts.NDRID).ExecContext(ctx, tx); err != nil {
		r.l.Errorf(ctx, "internal.outreach.repository.postgres.CreateAttempt.Lock: %v", err)
		return model.OutreachAttempt{}, pkgErrors.Wrap(err, "lock ndr attempts")
	}

	var row attemptRow
	err = queries.Raw(`INSERT INTO outreach_attempts (id, ndr_id, attempt_number, channel, recipient, content, operator,
			actor_type, actor_id, outcome, created_at)
		SELECT $1, $2, COALESCE(MAX(attempt_number), 0) + 1, $3, $4, $5, $6, $7, $8, $9, $10
		FROM outreach_attempts WHERE ndr_id = $2
		RETURNING `+attemptColumns,
		postgresPkg.NewUUID(), opts.NDRID, string(opts.Channel), opts.Recipient, opts.Content, opts.Operator,
		string(opts.Actor.Type), opts.Actor.ID, string(model.OutreachPending), r.clock(),
	).Bind(ctx, tx, &row)
	if err != nil {
		if postgresPkg.IsUniqueViolation(err) {
			return model.OutreachAttempt{}, repository.ErrConflict
		}
		r.l.Errorf(ctx, "internal.outreach.repository.postgres.CreateAttempt.Insert: %v", err)
		return model.OutreachAttempt{}, pkgErrors.Wrap(err, "insert outreach attempt")
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "internal.outreach.repository.postgres.CreateAttempt.Commit: %v", err)
		return model.OutreachAttempt{}, err
	}
	return row.toModel(), nil
}

func (r *implRepository) CompleteAttempt(ctx context.Context, opts repository.CompleteAttemptOptions) (model.OutreachAttempt, error) {
	if !postgresPkg.IsValidUUID(opts.ID) {
		return model.OutreachAttempt{}, repository.ErrNotFound
	}

	var row attemptRow
	err := queries.Raw(`UPDATE outreach_attempts SET outcome = $1, provider_ref = NULLIF($2, ''),
			provider_response = NULLIF($3, ''), error = NULLIF($4, ''), completed_at = $5
		WHERE id = $6 AND outcome = $7
		RETURNING `+attemptColumns,
		string(opts.Outcome), opts.ProviderRef, opts.ProviderResponse, opts.Error, opts.CompletedAt,
		opts.ID, string(model.OutreachPending),
	).Bind(ctx, r.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.OutreachAttempt{}, r.missingOrConflict(ctx, opts.ID)
		}
		r.l.Errorf(ctx, "internal.outreach.repository.postgres.CompleteAttempt.Update: %v", err)
		return model.OutreachAttempt{}, pkgErrors.Wrap(err, "complete outreach attempt")
	}
	return row.toModel(), nil
}

func (r *implRepository) missingOrConflict(ctx context.Context, id string) error {
	var cnt struct {
		Total int64 `boil:"total"`
	}
	if err := queries.Raw(`SELECT COUNT(*) AS total FROM outreach_attempts WHERE id = $1`, id).Bind(ctx, r.db, &cnt); err != nil {
		return pkgErrors.Wrap(err, "count outreach attempt")
	}
	if cnt.Total == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}

func (r *implRepository) ListAttempts(ctx context.Context, ndrID string) ([]model.OutreachAttempt, error) {
	if !postgresPkg.IsValidUUID(ndrID) {
		return []model.OutreachAttempt{}, nil
	}

	var rows []attemptRow
	err := queries.Raw(`SELECT `+attemptColumns+` FROM outreach_attempts WHERE ndr_id = $1 ORDER BY attempt_number ASC`,
		ndrID,
	).Bind(ctx, r.db, &rows)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		r.l.Errorf(ctx, "internal.outreach.repository.postgres.ListAttempts.Bind: %v", err)
		return nil, pkgErrors.Wrap(err, "list outreach attempts")
	}

	res := make([]model.OutreachAttempt, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toModel())
	}
	return res, nil
}

func (r *implRepository) CreateResponse(ctx context.Context, opts repository.CreateResponseOptions) (model.CustomerResponse, error) {
	resp := opts.Response
	if resp.ID == "" {
		resp.ID = postgresPkg.NewUUID()
	}

	var row responseRow
	err := queries.Raw(`INSERT INTO customer_responses (id, ndr_id, kind, note, reattempt_at, recorded_by, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		RETURNING `+responseColumns,
		resp.ID, resp.NDRID, string(resp.Kind), resp.Note, null.TimeFromPtr(resp.ReattemptAt), resp.RecordedBy, r.clock(),
	).Bind(ctx, r.db, &row)
	if err != nil {
		r.l.Errorf(ctx, "internal.outreach.repository.postgres.CreateResponse.Insert: %v", err)
		return model.CustomerResponse{}, pkgErrors.Wrap(err, "insert customer response")
	}
	return row.toModel(), nil
}

func (r *implRepository) ListResponses(ctx context.Context, ndrID string) ([]model.CustomerResponse, error) {
	if !postgresPkg.IsValidUUID(ndrID) {
		return []model.CustomerResponse{}, nil
	}

	var rows []responseRow
	err := queries.Raw(`SELECT `+responseColumns+` FROM customer_responses WHERE ndr_id = $1 ORDER BY created_at ASC`,
		ndrID,
	).Bind(ctx, r.db, &rows)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		r.l.Errorf(ctx, "internal.outreach.repository.postgres.ListResponses.Bind: %v", err)
		return nil, pkgErrors.Wrap(err, "list customer responses")
	}

	res := make([]model.CustomerResponse, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toModel())
	}
	return res, nil
}

func (r *implRepository) Stats(ctx context.Context, ndrID string) (model.OutreachStats, error) {
	if !postgresPkg.IsValidUUID(ndrID) {
		return model.OutreachStats{}, nil
	}

	var row struct {
		Attempts  int       `boil:"attempts"`
		Succeeded int       `boil:"succeeded"`
		Failed    int       `boil:"failed"`
		Responded bool      `boil:"responded"`
		LastAt    null.Time `boil:"last_at"`
	}
	err := queries.Raw(`SELECT
			COUNT(a.id) AS attempts,
			COUNT(a.id) FILTER (WHERE a.outcome = $2) AS succeeded,
			COUNT(a.id) FILTER (WHERE a.outcome = $3) AS failed,
			MAX(a.created_at) AS last_at,
			EXISTS (SELECT 1 FROM customer_responses cr WHERE cr.ndr_id = $1 AND cr.kind = ANY($4)) AS responded
		FROM outreach_attempts a WHERE a.ndr_id = $1`,
		ndrID, string(model.OutreachSuccess), string(model.OutreachFailed), answeredKinds(),
	).Bind(ctx, r.db, &row)
	if err != nil {
		r.l.Errorf(ctx, "internal.outreach.repository.postgres.Stats.Bind: %v", err)
		return model.OutreachStats{}, pkgErrors.Wrap(err, "outreach stats")
	}

	return model.OutreachStats{
		Attempts:          row.Attempts,
		Succeeded:         row.Succeeded,
		Failed:            row.Failed,
		CustomerResponded: row.Responded,
		LastAttemptAt:     row.LastAt.Ptr(),
	}, nil
}
