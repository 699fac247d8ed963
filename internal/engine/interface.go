package engine

import "context"

// UseCase evaluates delivery attempt contexts against the active rule set and
// drives NDRs through the ndr state machine.
//
//go:generate mockery --name UseCase
type UseCase interface {
	// Scan evaluates every open delivery attempt and sweeps active NDRs for
	// auto-resolution. When ctx expires the remaining contexts are skipped and
	// ctx.Err() is returned with the partial result.
	Scan(ctx context.Context) (ScanResult, error)
	// Evaluate runs the same evaluation for one delivery.
	Evaluate(ctx context.Context, deliveryID string) (EvaluationResult, error)
}
