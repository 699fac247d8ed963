package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ndr-srv/internal/alert"
	"ndr-srv/internal/archive"
	"ndr-srv/internal/event"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	"ndr-srv/internal/ndr/repository/memory"
	"ndr-srv/internal/risk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
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

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, ev event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

type mockArchiver struct {
	mock.Mock
}

func (m *mockArchiver) Archive(ctx context.Context, b archive.Bundle) (string, error) {
	args := m.Called(ctx, b)
	return args.String(0), args.Error(1)
}

type mockAlert struct {
	mock.Mock
}

func (m *mockAlert) DispatchEscalation(ctx context.Context, input alert.EscalationInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockAlert) DispatchSchedulerOverrun(ctx context.Context, input alert.SchedulerOverrunInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockAlert) DispatchApprovalPending(ctx context.Context, input alert.ApprovalPendingInput) error {
	return m.Called(ctx, input).Error(0)
}

type mockPending struct {
	mock.Mock
}

func (m *mockPending) CancelPending(ctx context.Context, ndrID, note string) (int, error) {
	args := m.Called(ctx, ndrID, note)
	return args.Int(0), args.Error(1)
}

var operator = model.Scope{UserID: "op-1", Role: model.RoleOperator}

func newTestUseCase(t *testing.T, opts Options) (ndr.UseCase, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	if opts.Publisher == nil {
		opts.Publisher = pub
	}
	return New(&testLogger{}, memory.New(), opts), pub
}

func openNDR(t *testing.T, uc ndr.UseCase, deliveryID string, attempts int) model.NDR {
	t.Helper()
	n, err := uc.Open(context.Background(), ndr.OpenInput{
		DeliveryID:    deliveryID,
		OrderID:       "order-" + deliveryID,
		Reason:        model.ReasonCustomerUnavailable,
		Confidence:    0.9,
		RuleID:        "rule-1",
		AttemptNumber: attempts,
		Assessment:    risk.Assessment{Score: 30, Priority: model.PriorityMedium},
	})
	require.NoError(t, err)
	return n
}

func TestOpen(t *testing.T) {
	uc, pub := newTestUseCase(t, Options{})
	ctx := context.Background()

	n := openNDR(t, uc, "d-1", 1)
	assert.Equal(t, model.NDRStatusOpen, n.Status)
	assert.Equal(t, 1, n.Version)
	assert.Regexp(t, `^NDR-\d{6}-[0-9A-F]{6}$`, n.Code)

	hist, err := uc.History(ctx, operator, n.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, model.NDRStatusOpen, hist[0].To)
	assert.Equal(t, model.RuleActor("rule-1"), hist[0].Actor)
	require.Len(t, pub.events, 1)

	_, err = uc.Open(ctx, ndr.OpenInput{DeliveryID: "d-1", Reason: model.ReasonOther, Confidence: 0.5})
	assert.ErrorIs(t, err, ndr.ErrActiveNDRExists)
}

func TestOpen_Validation(t *testing.T) {
	uc, _ := newTestUseCase(t, Options{})
	ctx := context.Background()

	_, err := uc.Open(ctx, ndr.OpenInput{Reason: model.ReasonOther})
	assert.ErrorIs(t, err, ndr.ErrDeliveryRequired)

	_, err = uc.Open(ctx, ndr.OpenInput{DeliveryID: "d", Reason: "LOST"})
	assert.ErrorIs(t, err, ndr.ErrInvalidReason)

	_, err = uc.Open(ctx, ndr.OpenInput{DeliveryID: "d", Reason: model.ReasonOther, Confidence: 1.2})
	assert.ErrorIs(t, err, ndr.ErrInvalidConfidence)
}

func TestTransition_AuditTrail(t *testing.T) {
	uc, pub := newTestUseCase(t, Options{})
	ctx := context.Background()
	n := openNDR(t, uc, "d-1", 1)

	n, err := uc.Transition(ctx, ndr.TransitionInput{ID: n.ID, To: model.NDRStatusActionRequested, Actor: model.SystemActor("outreach")})
	require.NoError(t, err)
	n, err = uc.ManualTransition(ctx, operator, ndr.ManualTransitionInput{ID: n.ID, To: model.NDRStatusResolved, Note: "customer picked up"})
	require.NoError(t, err)
	assert.NotNil(t, n.ResolvedAt)

	hist, err := uc.History(ctx, operator, n.ID)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, model.NDRStatusOpen, hist[1].From)
	assert.Equal(t, model.NDRStatusActionRequested, hist[1].To)
	assert.Equal(t, model.NDRStatusActionRequested, hist[2].From)
	assert.Equal(t, model.NDRStatusResolved, hist[2].To)
	assert.Equal(t, model.OperatorActor("op-1"), hist[2].Actor)
	assert.Equal(t, "customer picked up", hist[2].Note)
	assert.Len(t, pub.events, 3)
}

func TestManualTransition_TerminalIsImmutable(t *testing.T) {
	uc, _ := newTestUseCase(t, Options{})
	ctx := context.Background()
	n := openNDR(t, uc, "d-1", 1)

	_, err := uc.ManualTransition(ctx, operator, ndr.ManualTransitionInput{ID: n.ID, To: model.NDRStatusResolved})
	require.NoError(t, err)

	for _, to := range model.ActiveNDRStatuses {
		_, err := uc.ManualTransition(ctx, operator, ndr.ManualTransitionInput{ID: n.ID, To: to})
		assert.ErrorIs(t, err, ndr.ErrInvalidTransition, "RESOLVED -> %s", to)
	}

	got, err := uc.Detail(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusResolved, got.Status)
}

func TestManualTransition_PermissionDenied(t *testing.T) {
	uc, _ := newTestUseCase(t, Options{})
	n := openNDR(t, uc, "d-1", 1)

	viewer := model.Scope{UserID: "v-1", Role: model.RoleViewer}
	_, err := uc.ManualTransition(context.Background(), viewer, ndr.ManualTransitionInput{ID: n.ID, To: model.NDRStatusResolved})
	assert.ErrorIs(t, err, ndr.ErrPermissionDenied)
}

func TestTransition_RTO(t *testing.T) {
	uc, _ := newTestUseCase(t, Options{})
	ctx := context.Background()

	low := openNDR(t, uc, "d-low", 2)
	_, err := uc.Transition(ctx, ndr.TransitionInput{ID: low.ID, To: model.NDRStatusRTO, Actor: model.SystemActor("gate"), ActionID: "a-1"})
	assert.ErrorIs(t, err, ndr.ErrRTOThresholdNotMet)

	high := openNDR(t, uc, "d-high", 3)
	_, err = uc.ManualTransition(ctx, operator, ndr.ManualTransitionInput{ID: high.ID, To: model.NDRStatusRTO})
	assert.ErrorIs(t, err, ndr.ErrApprovalRequired)

	got, err := uc.Transition(ctx, ndr.TransitionInput{ID: high.ID, To: model.NDRStatusRTO, Actor: model.OperatorActor("sup-1"), ActionID: "a-2"})
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusRTO, got.Status)
}

func TestTransition_StaleVersion(t *testing.T) {
	uc, _ := newTestUseCase(t, Options{})
	ctx := context.Background()
	n := openNDR(t, uc, "d-1", 1)

	_, err := uc.Rescore(ctx, ndr.RescoreInput{ID: n.ID, AttemptNumber: 2, Assessment: risk.Assessment{Score: 55, Priority: model.PriorityHigh}})
	require.NoError(t, err)

	_, err = uc.Transition(ctx, ndr.TransitionInput{
		ID: n.ID, To: model.NDRStatusResolved, Actor: model.SystemActor("engine"), ExpectedVersion: n.Version,
	})
	assert.ErrorIs(t, err, ndr.ErrConcurrentModification)
}

func TestClose_Idempotent(t *testing.T) {
	arch := &mockArchiver{}
	arch.On("Archive", mock.Anything, mock.MatchedBy(func(b archive.Bundle) bool {
		return b.NDR.Status == model.NDRStatusClosed && len(b.Transitions) == 3
	})).Return("ndr/2026/03/x.json", nil).Once()

	uc, _ := newTestUseCase(t, Options{Archiver: arch})
	ctx := context.Background()
	n := openNDR(t, uc, "d-1", 1)

	_, err := uc.Close(ctx, operator, n.ID)
	assert.ErrorIs(t, err, ndr.ErrInvalidTransition)

	_, err = uc.ManualTransition(ctx, operator, ndr.ManualTransitionInput{ID: n.ID, To: model.NDRStatusResolved})
	require.NoError(t, err)

	closed, err := uc.Close(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	again, err := uc.Close(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.Equal(t, closed.Version, again.Version)

	hist, err := uc.History(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 3)
	arch.AssertExpectations(t)
}

func TestTransition_TerminalCancelsPending(t *testing.T) {
	pending := &mockPending{}
	uc, _ := newTestUseCase(t, Options{Pending: pending})
	ctx := context.Background()
	n := openNDR(t, uc, "d-1", 1)
	pending.On("CancelPending", mock.Anything, n.ID, "ndr resolved").Return(2, nil).Once()

	_, err := uc.ManualTransition(ctx, operator, ndr.ManualTransitionInput{ID: n.ID, To: model.NDRStatusActionRequested})
	require.NoError(t, err)
	pending.AssertNotCalled(t, "CancelPending", mock.Anything, mock.Anything, mock.Anything)

	_, err = uc.ManualTransition(ctx, operator, ndr.ManualTransitionInput{ID: n.ID, To: model.NDRStatusResolved})
	require.NoError(t, err)

	// Closing an already terminal NDR has nothing left to cancel.
	_, err = uc.Close(ctx, operator, n.ID)
	require.NoError(t, err)
	pending.AssertExpectations(t)
}

func TestTransition_CancelPendingErrorDoesNotFail(t *testing.T) {
	pending := &mockPending{}
	uc, _ := newTestUseCase(t, Options{Pending: pending})
	ctx := context.Background()
	n := openNDR(t, uc, "d-1", 1)
	pending.On("CancelPending", mock.Anything, n.ID, "ndr resolved").Return(0, errors.New("db down")).Once()

	got, err := uc.ManualTransition(ctx, operator, ndr.ManualTransitionInput{ID: n.ID, To: model.NDRStatusResolved})
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusResolved, got.Status)
	pending.AssertExpectations(t)
}

func TestCloseBatch(t *testing.T) {
	uc, _ := newTestUseCase(t, Options{})
	ctx := context.Background()

	resolved := openNDR(t, uc, "d-1", 1)
	_, err := uc.ManualTransition(ctx, operator, ndr.ManualTransitionInput{ID: resolved.ID, To: model.NDRStatusResolved})
	require.NoError(t, err)
	active := openNDR(t, uc, "d-2", 1)

	out, err := uc.CloseBatch(ctx, ndr.CloseBatchInput{OlderThan: -time.Minute})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Closed)
	assert.Zero(t, out.Failed)

	got, err := uc.Detail(ctx, operator, resolved.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusClosed, got.Status)

	got, err = uc.Detail(ctx, operator, active.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusOpen, got.Status)
}

func TestRescore(t *testing.T) {
	uc, _ := newTestUseCase(t, Options{})
	ctx := context.Background()
	n := openNDR(t, uc, "d-1", 3)

	got, err := uc.Rescore(ctx, ndr.RescoreInput{ID: n.ID, AttemptNumber: 2, Assessment: risk.Assessment{Score: 30, Priority: model.PriorityMedium}})
	require.NoError(t, err)
	assert.Equal(t, n.Version, got.Version, "unchanged inputs must not write")
	assert.Equal(t, 3, got.AttemptNumber)

	got, err = uc.Rescore(ctx, ndr.RescoreInput{ID: n.ID, AttemptNumber: 4, Assessment: risk.Assessment{Score: 80, Priority: model.PriorityCritical}})
	require.NoError(t, err)
	assert.Equal(t, 4, got.AttemptNumber)
	assert.Equal(t, model.PriorityCritical, got.Priority)

	hist, err := uc.History(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestEscalate_Once(t *testing.T) {
	al := &mockAlert{}
	al.On("DispatchEscalation", mock.Anything, mock.Anything).Return(errors.New("webhook down")).Once()

	uc, pub := newTestUseCase(t, Options{Alert: al})
	ctx := context.Background()
	n := openNDR(t, uc, "d-1", 2)

	got, err := uc.Escalate(ctx, ndr.EscalateInput{ID: n.ID, Actor: model.RuleActor("rule-esc")})
	require.NoError(t, err)
	assert.True(t, got.Escalated)
	assert.Equal(t, model.NDRStatusOpen, got.Status)

	again, err := uc.Escalate(ctx, ndr.EscalateInput{ID: n.ID, Actor: model.RuleActor("rule-esc")})
	require.NoError(t, err)
	assert.Equal(t, got.Version, again.Version)

	assert.Equal(t, event.TypeNDREscalated, pub.events[len(pub.events)-1].Type)
	al.AssertExpectations(t)
}

func TestStats(t *testing.T) {
	uc, _ := newTestUseCase(t, Options{})
	ctx := context.Background()
	openNDR(t, uc, "d-1", 1)
	n := openNDR(t, uc, "d-2", 1)
	_, err := uc.ManualTransition(ctx, operator, ndr.ManualTransitionInput{ID: n.ID, To: model.NDRStatusResolved})
	require.NoError(t, err)

	st, err := uc.Stats(ctx, operator)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Active)
	assert.Equal(t, 1, st.ByStatus[model.NDRStatusResolved])
	assert.Equal(t, 1, st.ByPriority[model.PriorityMedium])
}

func TestFindByDelivery(t *testing.T) {
	uc, _ := newTestUseCase(t, Options{})
	ctx := context.Background()

	_, err := uc.FindByDelivery(ctx, "d-1")
	assert.ErrorIs(t, err, ndr.ErrNDRNotFound)

	n := openNDR(t, uc, "d-1", 1)
	got, err := uc.FindByDelivery(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)
}
