package event

import (
	"time"

	"ndr-srv/internal/model"
)

type Type string

const (
	TypeNDRTransitioned      Type = "ndr.transitioned"
	TypeNDREscalated         Type = "ndr.escalated"
	TypeActionProposed       Type = "action.proposed"
	TypeActionDecided        Type = "action.decided"
	TypeSchedulerRunFinished Type = "scheduler.run_finished"
)

// Event is the envelope published to dashboards. Exactly one payload field is set.
type Event struct {
	Type       Type                `json:"type"`
	Key        string              `json:"key"`
	NDR        *model.NDR          `json:"ndr,omitempty"`
	Transition *model.Transition   `json:"transition,omitempty"`
	Action     *model.Action       `json:"action,omitempty"`
	Run        *model.SchedulerRun `json:"run,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

func NDRTransitioned(n model.NDR, t model.Transition) Event {
	return Event{Type: TypeNDRTransitioned, Key: n.ID, NDR: &n, Transition: &t, OccurredAt: t.CreatedAt}
}

func NDREscalated(n model.NDR) Event {
	at := n.UpdatedAt
	if n.EscalatedAt != nil {
		at = *n.EscalatedAt
	}
	return Event{Type: TypeNDREscalated, Key: n.ID, NDR: &n, OccurredAt: at}
}

func ActionProposed(a model.Action) Event {
	return Event{Type: TypeActionProposed, Key: a.NDRID, Action: &a, OccurredAt: a.CreatedAt}
}

func ActionDecided(a model.Action) Event {
	return Event{Type: TypeActionDecided, Key: a.NDRID, Action: &a, OccurredAt: a.UpdatedAt}
}

func SchedulerRunFinished(r model.SchedulerRun) Event {
	at := r.StartedAt
	if r.FinishedAt != nil {
		at = *r.FinishedAt
	}
	return Event{Type: TypeSchedulerRunFinished, Key: r.ID, Run: &r, OccurredAt: at}
}
