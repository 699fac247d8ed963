package usecase

import (
	"context"
	"testing"

	"ndr-srv/internal/action"
	actionMemory "ndr-srv/internal/action/repository/memory"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	ndrMemory "ndr-srv/internal/ndr/repository/memory"
	ndrUseCase "ndr-srv/internal/ndr/usecase"
	"ndr-srv/internal/risk"

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

var (
	supervisor = model.Scope{UserID: "sup-1", Role: model.RoleSupervisor}
	operator   = model.Scope{UserID: "op-1", Role: model.RoleOperator}
)

type fixture struct {
	gate  action.UseCase
	ndrUC ndr.UseCase
}

func newFixture(t *testing.T, policy action.Policy) fixture {
	t.Helper()
	l := &testLogger{}
	repo := actionMemory.New()
	ndrUC := ndrUseCase.New(l, ndrMemory.New(), ndrUseCase.Options{
		Pending: NewPendingCanceller(l, repo, nil),
	})
	return fixture{
		gate:  New(l, repo, ndrUC, policy, nil, nil),
		ndrUC: ndrUC,
	}
}

func (f fixture) open(t *testing.T, deliveryID string, attempts int, status model.NDRStatus) model.NDR {
	t.Helper()
	ctx := context.Background()
	n, err := f.ndrUC.Open(ctx, ndr.OpenInput{
		DeliveryID:    deliveryID,
		Reason:        model.ReasonCustomerUnavailable,
		Confidence:    0.8,
		AttemptNumber: attempts,
		Assessment:    risk.Assessment{Score: 60, Priority: model.PriorityHigh},
	})
	require.NoError(t, err)
	if status != model.NDRStatusOpen {
		n, err = f.ndrUC.Transition(ctx, ndr.TransitionInput{ID: n.ID, To: status, Actor: model.SystemActor("test")})
		require.NoError(t, err)
	}
	return n
}

func TestPropose_RTOWaitsForApproval(t *testing.T) {
	f := newFixture(t, action.NewPolicy())
	ctx := context.Background()
	n := f.open(t, "d-1", 3, model.NDRStatusOpen)

	out, err := f.gate.Propose(ctx, action.ProposeInput{NDRID: n.ID, Kind: model.ActionRTO, ProposedBy: model.RuleActor("rule-rto")})
	require.NoError(t, err)
	assert.Equal(t, action.OutcomePending, out.Outcome)
	assert.Equal(t, model.ApprovalPending, out.Action.ApprovalState)
	assert.Equal(t, model.ExecutionNotExecuted, out.Action.ExecutionState)

	got, err := f.ndrUC.Detail(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusOpen, got.Status)

	cnt, err := f.gate.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)

	approved, err := f.gate.Approve(ctx, supervisor, action.DecideInput{ID: out.Action.ID, Note: "customer unreachable"})
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalApproved, approved.ApprovalState)
	assert.Equal(t, model.ExecutionExecuted, approved.ExecutionState)

	got, err = f.ndrUC.Detail(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusRTO, got.Status)

	hist, err := f.ndrUC.History(ctx, operator, n.ID)
	require.NoError(t, err)
	last := hist[len(hist)-1]
	assert.Equal(t, model.OperatorActor("sup-1"), last.Actor)
	assert.Equal(t, out.Action.ID, last.ActionID)

	cnt, err = f.gate.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func TestPropose_RTOBelowThreshold(t *testing.T) {
	f := newFixture(t, action.NewPolicy())
	n := f.open(t, "d-1", 2, model.NDRStatusActionRequested)

	_, err := f.gate.Propose(context.Background(), action.ProposeInput{NDRID: n.ID, Kind: model.ActionRTO, ProposedBy: model.RuleActor("r")})
	assert.ErrorIs(t, err, ndr.ErrRTOThresholdNotMet)
}

func TestPropose_DeduplicatesPending(t *testing.T) {
	f := newFixture(t, action.NewPolicy())
	ctx := context.Background()
	n := f.open(t, "d-1", 4, model.NDRStatusOpen)

	first, err := f.gate.Propose(ctx, action.ProposeInput{NDRID: n.ID, Kind: model.ActionRTO, ProposedBy: model.RuleActor("r")})
	require.NoError(t, err)
	second, err := f.gate.Propose(ctx, action.ProposeInput{NDRID: n.ID, Kind: model.ActionRTO, ProposedBy: model.RuleActor("r")})
	require.NoError(t, err)

	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Action.ID, second.Action.ID)

	cnt, err := f.gate.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)
}

func TestPropose_ReattemptAutoExecutes(t *testing.T) {
	f := newFixture(t, action.NewPolicy())
	ctx := context.Background()
	n := f.open(t, "d-1", 1, model.NDRStatusActionRequested)

	out, err := f.gate.Propose(ctx, action.ProposeInput{NDRID: n.ID, Kind: model.ActionReattempt, ProposedBy: model.RuleActor("rule-re")})
	require.NoError(t, err)
	assert.Equal(t, action.OutcomeExecuted, out.Outcome)
	assert.Equal(t, model.ApprovalAutoApproved, out.Action.ApprovalState)

	got, err := f.ndrUC.Detail(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusReattemptScheduled, got.Status)

	hist, err := f.ndrUC.History(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RuleActor("rule-re"), hist[len(hist)-1].Actor)
}

func TestPropose_ReattemptFromOpenIsInvalid(t *testing.T) {
	f := newFixture(t, action.NewPolicy())
	n := f.open(t, "d-1", 1, model.NDRStatusOpen)

	_, err := f.gate.Propose(context.Background(), action.ProposeInput{NDRID: n.ID, Kind: model.ActionReattempt, ProposedBy: model.RuleActor("r")})
	assert.ErrorIs(t, err, ndr.ErrInvalidTransition)
}

func TestPropose_ConfiguredApproval(t *testing.T) {
	f := newFixture(t, action.NewPolicy(model.ActionEscalate))
	ctx := context.Background()
	n := f.open(t, "d-1", 1, model.NDRStatusOpen)

	out, err := f.gate.Propose(ctx, action.ProposeInput{NDRID: n.ID, Kind: model.ActionEscalate, ProposedBy: model.RuleActor("r")})
	require.NoError(t, err)
	assert.Equal(t, action.OutcomePending, out.Outcome)

	got, err := f.ndrUC.Detail(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.False(t, got.Escalated)
}

func TestPropose_InvalidKind(t *testing.T) {
	f := newFixture(t, action.NewPolicy())
	_, err := f.gate.Propose(context.Background(), action.ProposeInput{NDRID: "x", Kind: "DELETE"})
	assert.ErrorIs(t, err, action.ErrInvalidKind)
}

func TestDecide(t *testing.T) {
	f := newFixture(t, action.NewPolicy())
	ctx := context.Background()
	n := f.open(t, "d-1", 3, model.NDRStatusOpen)

	out, err := f.gate.Propose(ctx, action.ProposeInput{NDRID: n.ID, Kind: model.ActionRTO, ProposedBy: model.RuleActor("r")})
	require.NoError(t, err)

	_, err = f.gate.Approve(ctx, operator, action.DecideInput{ID: out.Action.ID})
	assert.ErrorIs(t, err, action.ErrPermissionDenied)

	rejected, err := f.gate.Reject(ctx, supervisor, action.DecideInput{ID: out.Action.ID, Note: "customer called back"})
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalRejected, rejected.ApprovalState)
	assert.Equal(t, "sup-1", rejected.DecidedBy)

	_, err = f.gate.Approve(ctx, supervisor, action.DecideInput{ID: out.Action.ID})
	assert.ErrorIs(t, err, action.ErrAlreadyDecided)

	_, err = f.gate.Approve(ctx, supervisor, action.DecideInput{ID: "missing"})
	assert.ErrorIs(t, err, action.ErrActionNotFound)

	got, err := f.ndrUC.Detail(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusOpen, got.Status)
}

func TestApprove_ExecutionFailsWhenNDRMovedOn(t *testing.T) {
	f := newFixture(t, action.NewPolicy())
	ctx := context.Background()
	n := f.open(t, "d-1", 3, model.NDRStatusOpen)

	out, err := f.gate.Propose(ctx, action.ProposeInput{NDRID: n.ID, Kind: model.ActionRTO, ProposedBy: model.RuleActor("r")})
	require.NoError(t, err)

	_, err = f.ndrUC.ManualTransition(ctx, operator, ndr.ManualTransitionInput{ID: n.ID, To: model.NDRStatusResolved})
	require.NoError(t, err)

	a, err := f.gate.Approve(ctx, supervisor, action.DecideInput{ID: out.Action.ID})
	assert.ErrorIs(t, err, action.ErrExecutionFailed)
	assert.ErrorIs(t, err, ndr.ErrInvalidTransition)
	assert.Equal(t, model.ExecutionFailed, a.ExecutionState)
	assert.NotEmpty(t, a.ExecutionError)
}

func TestPendingActionsClosedWhenNDRTerminal(t *testing.T) {
	f := newFixture(t, action.NewPolicy(model.ActionEscalate))
	ctx := context.Background()
	n := f.open(t, "d-1", 3, model.NDRStatusOpen)
	other := f.open(t, "d-2", 3, model.NDRStatusOpen)

	rto, err := f.gate.Propose(ctx, action.ProposeInput{NDRID: n.ID, Kind: model.ActionRTO, ProposedBy: model.SystemActor("engine")})
	require.NoError(t, err)
	esc, err := f.gate.Propose(ctx, action.ProposeInput{NDRID: n.ID, Kind: model.ActionEscalate, ProposedBy: model.RuleActor("r")})
	require.NoError(t, err)
	require.Equal(t, action.OutcomePending, esc.Outcome)
	_, err = f.gate.Propose(ctx, action.ProposeInput{NDRID: other.ID, Kind: model.ActionRTO, ProposedBy: model.SystemActor("engine")})
	require.NoError(t, err)

	cnt, err := f.gate.PendingCount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), cnt)

	_, err = f.ndrUC.ManualTransition(ctx, operator, ndr.ManualTransitionInput{ID: n.ID, To: model.NDRStatusResolved, Note: "delivered"})
	require.NoError(t, err)

	cnt, err = f.gate.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)

	for _, id := range []string{rto.Action.ID, esc.Action.ID} {
		a, err := f.gate.Detail(ctx, supervisor, id)
		require.NoError(t, err)
		assert.Equal(t, model.ApprovalRejected, a.ApprovalState)
		assert.Equal(t, model.ExecutionNotExecuted, a.ExecutionState)
		assert.Equal(t, "system", a.DecidedBy)
		assert.Equal(t, "ndr resolved", a.DecisionNote)
	}

	_, err = f.gate.Approve(ctx, supervisor, action.DecideInput{ID: rto.Action.ID})
	assert.ErrorIs(t, err, action.ErrAlreadyDecided)
}
