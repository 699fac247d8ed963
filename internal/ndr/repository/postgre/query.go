package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr/repository"
	postgresPkg "ndr-srv/pkg/postgre"

	"github.com/aarondl/null/v8"
)

const ndrColumns = `id, code, delivery_id, order_id, reason, confidence, rule_id, risk_score, priority,
	status, attempt_number, escalated, escalated_at, version, created_at, updated_at, resolved_at, closed_at`

const transitionColumns = `id, ndr_id, from_status, to_status, actor_type, actor_id, action_id, note, created_at`

const orderBy = ` ORDER BY CASE priority WHEN 'CRITICAL' THEN 4 WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END DESC,
	risk_score DESC, created_at ASC`

type ndrRow struct {
	ID            string      `boil:"id"`
	Code          string      `boil:"code"`
	DeliveryID    string      `boil:"delivery_id"`
	OrderID       string      `boil:"order_id"`
	Reason        string      `boil:"reason"`
	Confidence    float64     `boil:"confidence"`
	RuleID        null.String `boil:"rule_id"`
	RiskScore     int         `boil:"risk_score"`
	Priority      string      `boil:"priority"`
	Status        string      `boil:"status"`
	AttemptNumber int         `boil:"attempt_number"`
	Escalated     bool        `boil:"escalated"`
	EscalatedAt   null.Time   `boil:"escalated_at"`
	Version       int         `boil:"version"`
	CreatedAt     time.Time   `boil:"created_at"`
	UpdatedAt     time.Time   `boil:"updated_at"`
	ResolvedAt    null.Time   `boil:"resolved_at"`
	ClosedAt      null.Time   `boil:"closed_at"`
}

func (row ndrRow) toModel() model.NDR {
	return model.NDR{
		ID:            row.ID,
		Code:          row.Code,
		DeliveryID:    row.DeliveryID,
		OrderID:       row.OrderID,
		Reason:        model.Reason(row.Reason),
		Confidence:    row.Confidence,
		RuleID:        row.RuleID.String,
		RiskScore:     row.RiskScore,
		Priority:      model.Priority(row.Priority),
		Status:        model.NDRStatus(row.Status),
		AttemptNumber: row.AttemptNumber,
		Escalated:     row.Escalated,
		EscalatedAt:   row.EscalatedAt.Ptr(),
		Version:       row.Version,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		ResolvedAt:    row.ResolvedAt.Ptr(),
		ClosedAt:      row.ClosedAt.Ptr(),
	}
}

func toNDRs(rows []ndrRow) []model.NDR {
	res := make([]model.NDR, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toModel())
	}
	return res
}

type transitionRow struct {
	ID         string      `boil:"id"`
	NDRID      string      `boil:"ndr_id"`
	FromStatus null.String `boil:"from_status"`
	ToStatus   string      `boil:"to_status"`
	ActorType  string      `boil:"actor_type"`
	ActorID    string      `boil:"actor_id"`
	ActionID   null.String `boil:"action_id"`
	Note       null.String `boil:"note"`
	CreatedAt  time.Time   `boil:"created_at"`
}

func (row transitionRow) toModel() model.Transition {
	return model.Transition{
		ID:        row.ID,
		NDRID:     row.NDRID,
		From:      model.NDRStatus(row.FromStatus.String),
		To:        model.NDRStatus(row.ToStatus),
		Actor:     model.Actor{Type: model.ActorType(row.ActorType), ID: row.ActorID},
		ActionID:  row.ActionID.String,
		Note:      row.Note.String,
		CreatedAt: row.CreatedAt,
	}
}

// buildWhere renders the filter as a WHERE clause with positional arguments.
func (r *implRepository) buildWhere(ctx context.Context, f repository.Filter) (string, []any, error) {
	var (
		conds []string
		args  []any
	)

	if len(f.IDs) > 0 {
		if err := postgresPkg.ValidateUUIDs(f.IDs); err != nil {
			r.l.Errorf(ctx, "internal.ndr.repository.postgres.buildWhere.ValidateUUIDs: %v", err)
			return "", nil, err
		}
		conds = append(conds, postgresPkg.InClause("id", len(f.IDs), len(args)+1))
		args = append(args, postgresPkg.ToArgs(f.IDs)...)
	}
	if len(f.Statuses) > 0 {
		conds = append(conds, postgresPkg.InClause("status", len(f.Statuses), len(args)+1))
		args = append(args, postgresPkg.ToArgs(f.Statuses)...)
	}
	if len(f.Priorities) > 0 {
		conds = append(conds, postgresPkg.InClause("priority", len(f.Priorities), len(args)+1))
		args = append(args, postgresPkg.ToArgs(f.Priorities)...)
	}
	if len(f.Reasons) > 0 {
		conds = append(conds, postgresPkg.InClause("reason", len(f.Reasons), len(args)+1))
		args = append(args, postgresPkg.ToArgs(f.Reasons)...)
	}
	if f.DeliveryID != "" {
		args = append(args, f.DeliveryID)
		conds = append(conds, fmt.Sprintf("delivery_id = $%d", len(args)))
	}
	if f.Escalated != nil {
		args = append(args, *f.Escalated)
		conds = append(conds, fmt.Sprintf("escalated = $%d", len(args)))
	}
	if f.UpdatedBefore != nil {
		args = append(args, *f.UpdatedBefore)
		conds = append(conds, fmt.Sprintf("updated_at < $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}
