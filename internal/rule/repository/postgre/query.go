package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/rule/repository"
	postgresPkg "ndr-srv/pkg/postgre"

	"github.com/aarondl/null/v8"
)

const ruleColumns = `id, seq, name, description, type, priority, active, conditions, outcome,
	version, created_by, updated_by, created_at, updated_at`

type ruleRow struct {
	ID          string      `boil:"id"`
	Seq         int64       `boil:"seq"`
	Name        string      `boil:"name"`
	Description null.String `boil:"description"`
	Type        string      `boil:"type"`
	Priority    int         `boil:"priority"`
	Active      bool        `boil:"active"`
	Conditions  null.JSON   `boil:"conditions"`
	Outcome     null.JSON   `boil:"outcome"`
	Version     int         `boil:"version"`
	CreatedBy   string      `boil:"created_by"`
	UpdatedBy   string      `boil:"updated_by"`
	CreatedAt   time.Time   `boil:"created_at"`
	UpdatedAt   time.Time   `boil:"updated_at"`
}

func (row ruleRow) toModel() (model.Rule, error) {
	rl := model.Rule{
		ID:          row.ID,
		Seq:         row.Seq,
		Name:        row.Name,
		Description: row.Description.String,
		Type:        model.RuleType(row.Type),
		Priority:    row.Priority,
		Active:      row.Active,
		Version:     row.Version,
		CreatedBy:   row.CreatedBy,
		UpdatedBy:   row.UpdatedBy,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.Conditions.Valid {
		if err := row.Conditions.Unmarshal(&rl.Conditions); err != nil {
			return model.Rule{}, fmt.Errorf("conditions: %w", err)
		}
	}
	if row.Outcome.Valid {
		if err := row.Outcome.Unmarshal(&rl.Outcome); err != nil {
			return model.Rule{}, fmt.Errorf("outcome: %w", err)
		}
	}
	return rl, nil
}

type ruleVersionRow struct {
	RuleID    string    `boil:"rule_id"`
	Version   int       `boil:"version"`
	Snapshot  null.JSON `boil:"snapshot"`
	ChangedBy string    `boil:"changed_by"`
	CreatedAt time.Time `boil:"created_at"`
}

func (row ruleVersionRow) toModel() (model.RuleVersion, error) {
	v := model.RuleVersion{
		RuleID:    row.RuleID,
		Version:   row.Version,
		ChangedBy: row.ChangedBy,
		CreatedAt: row.CreatedAt,
	}
	if err := row.Snapshot.Unmarshal(&v.Snapshot); err != nil {
		return model.RuleVersion{}, err
	}
	return v, nil
}

func marshalJSON(v any) (null.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return null.JSON{}, err
	}
	return null.JSONFrom(b), nil
}

// buildWhere renders the filter as a WHERE clause with positional arguments.
func (r *implRepository) buildWhere(ctx context.Context, f repository.Filter) (string, []any, error) {
	var (
		conds []string
		args  []any
	)

	if len(f.IDs) > 0 {
		if err := postgresPkg.ValidateUUIDs(f.IDs); err != nil {
			r.l.Errorf(ctx, "internal.rule.repository.postgres.buildWhere.ValidateUUIDs: %v", err)
			return "", nil, err
		}
		conds = append(conds, postgresPkg.InClause("id", len(f.IDs), len(args)+1))
		args = append(args, postgresPkg.ToArgs(f.IDs)...)
	}
	if f.Type != "" {
		args = append(args, string(f.Type))
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		conds = append(conds, fmt.Sprintf("active = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}
