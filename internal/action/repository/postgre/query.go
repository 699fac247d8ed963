package postgres

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ndr-srv/internal/action/repository"
	"ndr-srv/internal/model"

	"github.com/aarondl/null/v8"
)

const actionColumns = `id, ndr_id, kind, config, proposed_by_type, proposed_by_id, approval_state, execution_state,
	decided_by, decision_note, decided_at, executed_at, execution_error, created_at, updated_at`

type actionRow struct {
	ID             string      `boil:"id"`
	NDRID          string      `boil:"ndr_id"`
	Kind           string      `boil:"kind"`
	Config         null.JSON   `boil:"config"`
	ProposedByType string      `boil:"proposed_by_type"`
	ProposedByID   string      `boil:"proposed_by_id"`
	ApprovalState  string      `boil:"approval_state"`
	ExecutionState string      `boil:"execution_state"`
	DecidedBy      null.String `boil:"decided_by"`
	DecisionNote   null.String `boil:"decision_note"`
	DecidedAt      null.Time   `boil:"decided_at"`
	ExecutedAt     null.Time   `boil:"executed_at"`
	ExecutionError null.String `boil:"execution_error"`
	CreatedAt      time.Time   `boil:"created_at"`
	UpdatedAt      time.Time   `boil:"updated_at"`
}

func (row actionRow) toModel() (model.Action, error) {
	a := model.Action{
		ID:             row.ID,
		NDRID:          row.NDRID,
		Kind:           model.ActionKind(row.Kind),
		ProposedBy:     model.Actor{Type: model.ActorType(row.ProposedByType), ID: row.ProposedByID},
		ApprovalState:  model.ApprovalState(row.ApprovalState),
		ExecutionState: model.ExecutionState(row.ExecutionState),
		DecidedBy:      row.DecidedBy.String,
		DecisionNote:   row.DecisionNote.String,
		DecidedAt:      row.DecidedAt.Ptr(),
		ExecutedAt:     row.ExecutedAt.Ptr(),
		ExecutionError: row.ExecutionError.String,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.Config.Valid {
		if err := row.Config.Unmarshal(&a.Config); err != nil {
			return model.Action{}, fmt.Errorf("config: %w", err)
		}
	}
	return a, nil
}

func marshalJSON(v any) (null.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return null.JSON{}, err
	}
	return null.JSONFrom(b), nil
}

func buildWhere(f repository.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.NDRID != "" {
		args = append(args, f.NDRID)
		conds = append(conds, fmt.Sprintf("ndr_id = $%d", len(args)))
	}
	if f.Kind != "" {
		args = append(args, string(f.Kind))
		conds = append(conds, fmt.Sprintf("kind = $%d", len(args)))
	}
	if f.ApprovalState != "" {
		args = append(args, string(f.ApprovalState))
		conds = append(conds, fmt.Sprintf("approval_state = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
