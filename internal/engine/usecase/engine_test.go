package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ndr-srv/internal/action"
	actionMemory "ndr-srv/internal/action/repository/memory"
	actionUseCase "ndr-srv/internal/action/usecase"
	"ndr-srv/internal/engine"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	ndrMemory "ndr-srv/internal/ndr/repository/memory"
	ndrUseCase "ndr-srv/internal/ndr/usecase"
	outreachMemory "ndr-srv/internal/outreach/repository/memory"
	outreachUseCase "ndr-srv/internal/outreach/usecase"
	"ndr-srv/internal/rule"
	ruleMemory "ndr-srv/internal/rule/repository/memory"
	ruleUseCase "ndr-srv/internal/rule/usecase"
	shipmentMemory "ndr-srv/internal/shipment/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger implements log.Logger for testing
type testLogger struct{}

func (m *testLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *testLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *testLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *testLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *testLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *testLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *testLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

var supervisor = model.Scope{UserID: "sup-1", Role: model.RoleSupervisor}

type fixture struct {
	uc       engine.UseCase
	rules    rule.UseCase
	ndrUC    ndr.UseCase
	actionUC action.UseCase
	store    interface {
		PutOrder(o model.Order)
		PutDelivery(d model.Delivery, signals ...model.Signal)
		RecordFailedAttempt(deliveryID string, at time.Time, signals ...model.Signal) error
		MarkDelivered(deliveryID string, at time.Time) error
		ConfirmCustomer(deliveryID string) error
	}
}

// newFixture wires the engine over in-memory stores seeded with the default rules.
// wrap, when set, decorates the ndr usecase seen by the engine.
func newFixture(t *testing.T, wrap func(ndr.UseCase) ndr.UseCase) fixture {
	t.Helper()
	l := &testLogger{}
	ctx := context.Background()

	rules := ruleUseCase.New(l, ruleMemory.New())
	_, err := rules.SeedDefaults(ctx)
	require.NoError(t, err)

	store := shipmentMemory.New()
	actions := actionMemory.New()
	ndrUC := ndrUseCase.New(l, ndrMemory.New(), ndrUseCase.Options{
		Pending: actionUseCase.NewPendingCanceller(l, actions, nil),
	})
	gate := actionUseCase.New(l, actions, ndrUC, action.NewPolicy(), nil, nil)
	out := outreachUseCase.New(l, outreachMemory.New(), ndrUC, gate, store, outreachUseCase.Options{})

	engineNDR := ndrUC
	if wrap != nil {
		engineNDR = wrap(ndrUC)
	}
	return fixture{
		uc:       New(l, rules, engineNDR, gate, out, store, Options{Workers: 4}),
		rules:    rules,
		ndrUC:    ndrUC,
		actionUC: gate,
		store:    store,
	}
}

func (f fixture) failed(id string, attempts int, signals ...model.Signal) {
	last := time.Now().Add(-time.Hour)
	f.store.PutOrder(model.Order{ID: "o-" + id, Code: "ORD-" + id, CustomerPhone: "+8490000000"})
	f.store.PutDelivery(model.Delivery{
		ID:            id,
		OrderID:       "o-" + id,
		Status:        model.DeliveryStatusFailed,
		AttemptCount:  attempts,
		LastAttemptAt: &last,
	}, signals...)
}

func (f fixture) ndrOf(t *testing.T, deliveryID string) model.NDR {
	t.Helper()
	n, err := f.ndrUC.FindByDelivery(context.Background(), deliveryID)
	require.NoError(t, err)
	return n
}

func (f fixture) ruleByName(t *testing.T, name string) model.Rule {
	t.Helper()
	rules, err := f.rules.ListActive(context.Background())
	require.NoError(t, err)
	for _, r := range rules {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("rule %s not found", name)
	return model.Rule{}
}

func TestScan_FreshFailureOpensNDR(t *testing.T) {
	f := newFixture(t, nil)
	f.failed("d-1", 1, model.SignalCustomerUnavailable)

	res, err := f.uc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Evaluated)
	assert.Equal(t, len(rule.DefaultRules()), res.RulesExecuted)

	n := f.ndrOf(t, "d-1")
	assert.Equal(t, model.ReasonCustomerUnavailable, n.Reason)
	assert.Equal(t, model.NDRStatusOpen, n.Status)
	assert.Less(t, n.RiskScore, 50)
	assert.Contains(t, []model.Priority{model.PriorityMedium, model.PriorityLow}, n.Priority)
	assert.Equal(t, f.ruleByName(t, "customer-unavailable").ID, n.RuleID)
}

func TestScan_SecondScanOnlyRescores(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.failed("d-1", 1, model.SignalWrongAddress)

	_, err := f.uc.Scan(ctx)
	require.NoError(t, err)

	res, err := f.uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Evaluated)

	require.NoError(t, f.store.RecordFailedAttempt("d-1", time.Now(), model.SignalCustomerRefused))
	res, err = f.uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	n := f.ndrOf(t, "d-1")
	assert.Equal(t, model.ReasonWrongAddress, n.Reason)
	assert.Equal(t, 2, n.AttemptNumber)
}

func TestScan_RTOWaitsForApproval(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.failed("d-1", 3, model.SignalCustomerUnavailable)

	res, err := f.uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Proposed)

	n := f.ndrOf(t, "d-1")
	assert.Equal(t, model.NDRStatusOpen, n.Status)

	pending, err := f.actionUC.Get(ctx, supervisor, action.GetInput{Filter: action.Filter{NDRID: n.ID, ApprovalState: model.ApprovalPending}})
	require.NoError(t, err)
	require.Len(t, pending.Actions, 1)
	assert.Equal(t, model.ActionRTO, pending.Actions[0].Kind)

	// A rescan does not queue a second RTO.
	res, err = f.uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Proposed)
	count, err := f.actionUC.PendingCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = f.actionUC.Approve(ctx, supervisor, action.DecideInput{ID: pending.Actions[0].ID})
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusRTO, f.ndrOf(t, "d-1").Status)
}

func TestScan_NoRTOBelowThreshold(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.failed("d-1", 2, model.SignalCustomerUnavailable)

	_, err := f.uc.Scan(ctx)
	require.NoError(t, err)

	count, err := f.actionUC.PendingCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestScan_DeactivatedRuleIsNotApplied(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.failed("d-1", 1, model.SignalWrongAddress)

	_, err := f.uc.Scan(ctx)
	require.NoError(t, err)
	require.Equal(t, model.ReasonWrongAddress, f.ndrOf(t, "d-1").Reason)

	wrong := f.ruleByName(t, "wrong-address")
	_, err = f.rules.Deactivate(ctx, supervisor, wrong.ID)
	require.NoError(t, err)

	f.failed("d-2", 1, model.SignalWrongAddress)
	require.NoError(t, f.store.RecordFailedAttempt("d-1", time.Now(), model.SignalWrongAddress))

	res, err := f.uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(rule.DefaultRules())-1, res.RulesExecuted)

	assert.Equal(t, model.ReasonOther, f.ndrOf(t, "d-2").Reason)
	kept := f.ndrOf(t, "d-1")
	assert.Equal(t, model.ReasonWrongAddress, kept.Reason)
	assert.Equal(t, wrong.ID, kept.RuleID)
	assert.Equal(t, 2, kept.AttemptNumber)
}

func TestScan_AutoResolvesClearedDeliveries(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.failed("d-1", 1, model.SignalCustomerUnavailable)
	f.failed("d-2", 1, model.SignalPhoneUnreachable)

	_, err := f.uc.Scan(ctx)
	require.NoError(t, err)

	require.NoError(t, f.store.MarkDelivered("d-1", time.Now()))
	require.NoError(t, f.store.ConfirmCustomer("d-2"))

	res, err := f.uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.AutoResolved)
	assert.Equal(t, model.NDRStatusResolved, f.ndrOf(t, "d-1").Status)
	assert.Equal(t, model.NDRStatusResolved, f.ndrOf(t, "d-2").Status)

	trs, err := f.ndrUC.History(ctx, supervisor, f.ndrOf(t, "d-1").ID)
	require.NoError(t, err)
	last := trs[len(trs)-1]
	assert.Equal(t, model.SystemActor("engine"), last.Actor)

	res, err = f.uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.AutoResolved)
	assert.Equal(t, 0, res.Created)
}

func TestScan_AutoResolveClosesPendingRTO(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.failed("d-1", 3, model.SignalCustomerUnavailable)

	res, err := f.uc.Scan(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Proposed)
	count, err := f.actionUC.PendingCount(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	require.NoError(t, f.store.MarkDelivered("d-1", time.Now()))
	res, err = f.uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.AutoResolved)

	count, err = f.actionUC.PendingCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	n := f.ndrOf(t, "d-1")
	assert.Equal(t, model.NDRStatusResolved, n.Status)
	got, err := f.actionUC.Get(ctx, supervisor, action.GetInput{Filter: action.Filter{NDRID: n.ID, Kind: model.ActionRTO}})
	require.NoError(t, err)
	require.Len(t, got.Actions, 1)
	rto := got.Actions[0]
	assert.Equal(t, model.ApprovalRejected, rto.ApprovalState)
	assert.Equal(t, "system", rto.DecidedBy)

	_, err = f.actionUC.Approve(ctx, supervisor, action.DecideInput{ID: rto.ID})
	assert.ErrorIs(t, err, action.ErrAlreadyDecided)
	assert.Equal(t, model.NDRStatusResolved, f.ndrOf(t, "d-1").Status)
}

func TestEvaluate_ReopensAfterFailedReattempt(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.failed("d-1", 1, model.SignalRescheduleRequested)

	ev, err := f.uc.Evaluate(ctx, "d-1")
	require.NoError(t, err)
	require.Equal(t, engine.OutcomeCreated, ev.Outcome)

	n := ev.NDR
	for _, to := range []model.NDRStatus{model.NDRStatusActionRequested, model.NDRStatusReattemptScheduled} {
		moved, err := f.ndrUC.Transition(ctx, ndr.TransitionInput{ID: n.ID, To: to, Actor: model.SystemActor("test")})
		require.NoError(t, err)
		n = &moved
	}

	require.NoError(t, f.store.RecordFailedAttempt("d-1", time.Now(), model.SignalCustomerUnavailable))
	ev, err = f.uc.Evaluate(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, engine.OutcomeUpdated, ev.Outcome)
	assert.Equal(t, model.NDRStatusOpen, ev.NDR.Status)
	assert.Equal(t, 2, ev.NDR.AttemptNumber)
}

func TestEvaluate_UnknownDelivery(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.uc.Evaluate(context.Background(), "missing")
	assert.ErrorIs(t, err, engine.ErrDeliveryNotFound)
}

type faultyNDR struct {
	ndr.UseCase
}

func (f faultyNDR) FindByDelivery(ctx context.Context, deliveryID string) (model.NDR, error) {
	switch deliveryID {
	case "d-bad":
		return model.NDR{}, errors.New("connection reset")
	case "d-panic":
		panic("nil map")
	}
	return f.UseCase.FindByDelivery(ctx, deliveryID)
}

func TestScan_IsolatesContextFailures(t *testing.T) {
	f := newFixture(t, func(uc ndr.UseCase) ndr.UseCase { return faultyNDR{uc} })
	f.failed("d-bad", 1, model.SignalCustomerUnavailable)
	f.failed("d-panic", 1, model.SignalCustomerUnavailable)
	f.failed("d-1", 1, model.SignalCustomerUnavailable)

	res, err := f.uc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 3, res.Evaluated)

	_, err = f.uc.Evaluate(context.Background(), "d-bad")
	var evalErr *engine.RuleEvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "d-bad", evalErr.DeliveryID)
}

func TestScan_ExpiredDeadlineSkipsRemainingContexts(t *testing.T) {
	f := newFixture(t, nil)
	f.failed("d-1", 1, model.SignalCustomerUnavailable)
	f.failed("d-2", 1, model.SignalWrongAddress)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.uc.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 0, res.Evaluated)

	_, err = f.ndrUC.FindByDelivery(context.Background(), "d-1")
	assert.ErrorIs(t, err, ndr.ErrNDRNotFound)
}
