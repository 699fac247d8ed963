package engine

import "ndr-srv/internal/model"

type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeResolved  Outcome = "resolved"
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeConflict means another writer changed the NDR. The next scan retries.
	OutcomeConflict Outcome = "conflict"
	OutcomeFailed   Outcome = "failed"
	OutcomeSkipped  Outcome = "skipped"
)

type ScanResult struct {
	RulesExecuted int
	Evaluated     int
	Created       int
	Updated       int
	AutoResolved  int
	Failed        int
	// Skipped counts contexts left for the next scan: deadline hit or write conflict.
	Skipped int
	// Proposed counts actions raised through the action gate.
	Proposed int
}

func (r *ScanResult) Add(o Outcome, proposed int) {
	r.Proposed += proposed
	switch o {
	case OutcomeCreated:
		r.Evaluated++
		r.Created++
	case OutcomeUpdated:
		r.Evaluated++
		r.Updated++
	case OutcomeResolved:
		r.Evaluated++
		r.AutoResolved++
	case OutcomeUnchanged:
		r.Evaluated++
	case OutcomeConflict, OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Evaluated++
		r.Failed++
	}
}

type EvaluationResult struct {
	DeliveryID string
	Outcome    Outcome
	NDR        *model.NDR
	Proposed   []model.Action
}
