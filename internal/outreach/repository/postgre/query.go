package postgres

import (
	"time"

	"ndr-srv/internal/model"

	"github.com/aarondl/null/v8"
	"github.com/lib/pq"
)

const attemptColumns = `id, ndr_id, attempt_number, channel, recipient, content, operator, actor_type, actor_id,
	outcome, provider_ref, provider_response, error, created_at, completed_at`

const responseColumns = `id, ndr_id, kind, note, reattempt_at, recorded_by, created_at`

type attemptRow struct {
	ID               string      `boil:"id"`
	NDRID            string      `boil:"ndr_id"`
	AttemptNumber    int         `boil:"attempt_number"`
	Channel          string      `boil:"channel"`
	Recipient        string      `boil:"recipient"`
	Content          string      `boil:"content"`
	Operator         bool        `boil:"operator"`
	ActorType        string      `boil:"actor_type"`
	ActorID          string      `boil:"actor_id"`
	Outcome          string      `boil:"outcome"`
	ProviderRef      null.String `boil:"provider_ref"`
	ProviderResponse null.String `boil:"provider_response"`
	Error            null.String `boil:"error"`
	CreatedAt        time.Time   `boil:"created_at"`
	CompletedAt      null.Time   `boil:"completed_at"`
}

func (row attemptRow) toModel() model.OutreachAttempt {
	return model.OutreachAttempt{
		ID:               row.ID,
		NDRID:            row.NDRID,
		AttemptNumber:    row.AttemptNumber,
		Channel:          model.Channel(row.Channel),
		Recipient:        row.Recipient,
		Content:          row.Content,
		Operator:         row.Operator,
		Actor:            model.Actor{Type: model.ActorType(row.ActorType), ID: row.ActorID},
		Outcome:          model.OutreachOutcome(row.Outcome),
		ProviderRef:      row.ProviderRef.String,
		ProviderResponse: row.ProviderResponse.String,
		Error:            row.Error.String,
		CreatedAt:        row.CreatedAt,
		CompletedAt:      row.CompletedAt.Ptr(),
	}
}

type responseRow struct {
	ID          string      `boil:"id"`
	NDRID       string      `boil:"ndr_id"`
	Kind        string      `boil:"kind"`
	Note        null.String `boil:"note"`
	ReattemptAt null.Time   `boil:"reattempt_at"`
	RecordedBy  string      `boil:"recorded_by"`
	CreatedAt   time.Time   `boil:"created_at"`
}

func (row responseRow) toModel() model.CustomerResponse {
	return model.CustomerResponse{
		ID:          row.ID,
		NDRID:       row.NDRID,
		Kind:        model.ResponseKind(row.Kind),
		Note:        row.Note.String,
		ReattemptAt: row.ReattemptAt.Ptr(),
		RecordedBy:  row.RecordedBy,
		CreatedAt:   row.CreatedAt,
	}
}

func answeredKinds() pq.StringArray {
	return pq.StringArray{
		string(model.ResponseReschedule),
		string(model.ResponseConfirmed),
		string(model.ResponseRefused),
	}
}
