package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"ndr-srv/internal/action"
	actionMemory "ndr-srv/internal/action/repository/memory"
	actionUseCase "ndr-srv/internal/action/usecase"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	ndrMemory "ndr-srv/internal/ndr/repository/memory"
	ndrUseCase "ndr-srv/internal/ndr/usecase"
	"ndr-srv/internal/outreach"
	outreachMemory "ndr-srv/internal/outreach/repository/memory"
	"ndr-srv/internal/risk"
	shipmentMemory "ndr-srv/internal/shipment/repository/memory"
	"ndr-srv/pkg/encrypter"

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

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) SendMessage(ctx context.Context, channel model.Channel, recipient, content string) (outreach.TransportResult, error) {
	args := m.Called(ctx, channel, recipient, content)
	return args.Get(0).(outreach.TransportResult), args.Error(1)
}

type staticRenderer string

func (r staticRenderer) Render(reason model.Reason, data outreach.TemplateData) (string, error) {
	return string(r) + " " + data.OrderCode, nil
}

var operator = model.Scope{UserID: "op-1", Role: model.RoleOperator}

type fixture struct {
	uc        outreach.UseCase
	ndrUC     ndr.UseCase
	transport *mockTransport
	// attempts reads the stored rows without decryption.
	attempts interface {
		ListAttempts(ctx context.Context, ndrID string) ([]model.OutreachAttempt, error)
	}
}

func newFixture(t *testing.T, timeout time.Duration) fixture {
	t.Helper()
	l := &testLogger{}

	store := shipmentMemory.New()
	store.PutOrder(model.Order{ID: "o-1", Code: "ORD-1", CustomerName: "An", CustomerPhone: "+84900000001", CustomerEmail: "an@example.com"})
	store.PutDelivery(model.Delivery{ID: "d-1", OrderID: "o-1", Carrier: "GHN", TrackingNumber: "TRK-1", Status: model.DeliveryStatusFailed, AttemptCount: 1})

	enc, err := encrypter.New("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	ndrUC := ndrUseCase.New(l, ndrMemory.New(), ndrUseCase.Options{})
	gate := actionUseCase.New(l, actionMemory.New(), ndrUC, action.NewPolicy(), nil, nil)
	repo := outreachMemory.New()
	tr := &mockTransport{}

	return fixture{
		uc: New(l, repo, ndrUC, gate, store, Options{
			Transport:       tr,
			Renderer:        staticRenderer("Please reply about"),
			Encrypter:       enc,
			ProviderTimeout: timeout,
		}),
		ndrUC:     ndrUC,
		transport: tr,
		attempts:  repo,
	}
}

func (f fixture) open(t *testing.T) model.NDR {
	t.Helper()
	n, err := f.ndrUC.Open(context.Background(), ndr.OpenInput{
		DeliveryID:    "d-1",
		OrderID:       "o-1",
		Reason:        model.ReasonCustomerUnavailable,
		Confidence:    0.8,
		AttemptNumber: 1,
		Assessment:    risk.Assessment{Score: 30, Priority: model.PriorityMedium},
	})
	require.NoError(t, err)
	return n
}

func TestSend_SuccessMovesOpenToActionRequested(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	n := f.open(t)

	f.transport.On("SendMessage", mock.Anything, model.ChannelSMS, "+84900000001", "Please reply about ORD-1").
		Return(outreach.TransportResult{ProviderRef: "m-1", Response: "queued"}, nil).Once()

	out, err := f.uc.Send(ctx, outreach.SendInput{NDRID: n.ID, Channel: model.ChannelSMS})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, 1, out.Attempt.AttemptNumber)
	assert.Equal(t, model.OutreachSuccess, out.Attempt.Outcome)
	assert.Equal(t, "queued", out.ProviderResponse)
	assert.Equal(t, model.NDRStatusActionRequested, out.NDR.Status)

	stats, err := f.uc.Stats(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Attempts)
	assert.Equal(t, 1, stats.Succeeded)

	trs, err := f.ndrUC.History(ctx, operator, n.ID)
	require.NoError(t, err)
	last := trs[len(trs)-1]
	assert.Equal(t, model.NDRStatusOpen, last.From)
	assert.Equal(t, model.NDRStatusActionRequested, last.To)
	assert.Equal(t, model.ActorSystem, last.Actor.Type)
}

func TestSend_SecondSuccessKeepsStatus(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	n := f.open(t)

	f.transport.On("SendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(outreach.TransportResult{ProviderRef: "m"}, nil)

	_, err := f.uc.Send(ctx, outreach.SendInput{NDRID: n.ID, Channel: model.ChannelSMS})
	require.NoError(t, err)
	out, err := f.uc.Send(ctx, outreach.SendInput{NDRID: n.ID, Channel: model.ChannelEmail, MessageOverride: "custom"})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Attempt.AttemptNumber)
	assert.Equal(t, "custom", out.Attempt.Content)
	assert.Equal(t, model.NDRStatusActionRequested, out.NDR.Status)
	f.transport.AssertCalled(t, "SendMessage", mock.Anything, model.ChannelEmail, "an@example.com", "custom")
}

func TestSend_FailureRecordsAttemptWithoutTransition(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	n := f.open(t)

	f.transport.On("SendMessage", mock.Anything, model.ChannelWhatsApp, mock.Anything, mock.Anything).
		Return(outreach.TransportResult{}, errors.New("gateway down")).Once()

	out, err := f.uc.Send(ctx, outreach.SendInput{NDRID: n.ID, Channel: model.ChannelWhatsApp})

	var sendErr *outreach.SendFailureError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, 1, sendErr.AttemptNumber)
	assert.Equal(t, model.ChannelWhatsApp, sendErr.Channel)
	assert.False(t, out.Success)
	assert.Equal(t, model.OutreachFailed, out.Attempt.Outcome)
	assert.Equal(t, "gateway down", out.Attempt.Error)

	cur, err := f.ndrUC.Detail(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusOpen, cur.Status)
	assert.Equal(t, n.Version, cur.Version)

	f.transport.On("SendMessage", mock.Anything, model.ChannelVoice, mock.Anything, mock.Anything).
		Return(outreach.TransportResult{ProviderRef: "v-1"}, nil).Once()
	out, err = f.uc.Send(ctx, outreach.SendInput{NDRID: n.ID, Channel: model.ChannelVoice})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Attempt.AttemptNumber)
}

func TestSend_ProviderTimeout(t *testing.T) {
	f := newFixture(t, 20*time.Millisecond)
	ctx := context.Background()
	n := f.open(t)

	f.transport.On("SendMessage", mock.Anything, model.ChannelSMS, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(outreach.TransportResult{}, context.DeadlineExceeded).Once()

	out, err := f.uc.Send(ctx, outreach.SendInput{NDRID: n.ID, Channel: model.ChannelSMS})
	var sendErr *outreach.SendFailureError
	require.ErrorAs(t, err, &sendErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, model.OutreachFailed, out.Attempt.Outcome)
	assert.Contains(t, out.Attempt.Error, "provider timeout")
}

func TestSend_ConcurrentAttemptsAreGapless(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	n := f.open(t)

	f.transport.On("SendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(outreach.TransportResult{ProviderRef: "m"}, nil)

	const sends = 20
	var wg sync.WaitGroup
	for i := 0; i < sends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.uc.Send(ctx, outreach.SendInput{NDRID: n.ID, Channel: model.ChannelSMS})
		}()
	}
	wg.Wait()

	attempts, err := f.attempts.ListAttempts(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, attempts, sends)

	numbers := make([]int, 0, sends)
	for _, a := range attempts {
		numbers = append(numbers, a.AttemptNumber)
	}
	sort.Ints(numbers)
	for i, num := range numbers {
		assert.Equal(t, i+1, num)
	}
}

func TestSend_RecipientEncryptedAtRest(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	n := f.open(t)

	f.transport.On("SendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(outreach.TransportResult{}, nil)
	_, err := f.uc.Send(ctx, outreach.SendInput{NDRID: n.ID, Channel: model.ChannelSMS})
	require.NoError(t, err)

	stored, err := f.attempts.ListAttempts(ctx, n.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "+84900000001", stored[0].Recipient)

	listed, err := f.uc.ListAttempts(ctx, operator, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "+84900000001", listed[0].Recipient)
}

func TestSend_Rejections(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	n := f.open(t)

	_, err := f.uc.Send(ctx, outreach.SendInput{NDRID: n.ID, Channel: "FAX"})
	assert.ErrorIs(t, err, outreach.ErrInvalidChannel)

	_, err = f.uc.Send(ctx, outreach.SendInput{NDRID: "missing", Channel: model.ChannelSMS})
	assert.ErrorIs(t, err, outreach.ErrNDRNotFound)

	_, err = f.uc.ManualSend(ctx, model.Scope{UserID: "v-1", Role: model.RoleViewer}, outreach.SendInput{NDRID: n.ID, Channel: model.ChannelSMS})
	assert.ErrorIs(t, err, outreach.ErrPermissionDenied)

	_, err = f.ndrUC.Transition(ctx, ndr.TransitionInput{ID: n.ID, To: model.NDRStatusResolved, Actor: model.SystemActor("test")})
	require.NoError(t, err)
	_, err = f.uc.Send(ctx, outreach.SendInput{NDRID: n.ID, Channel: model.ChannelSMS})
	assert.ErrorIs(t, err, outreach.ErrNDRNotActive)

	f.transport.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordResponse_ConfirmedResolves(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	n := f.open(t)

	out, err := f.uc.RecordResponse(ctx, operator, outreach.RecordResponseInput{NDRID: n.ID, Kind: model.ResponseConfirmed})
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusResolved, out.NDR.Status)

	stats, err := f.uc.Stats(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, stats.CustomerResponded)
}

func TestRecordResponse_RescheduleSchedulesReattempt(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	n := f.open(t)
	at := time.Now().Add(24 * time.Hour)

	out, err := f.uc.RecordResponse(ctx, operator, outreach.RecordResponseInput{NDRID: n.ID, Kind: model.ResponseReschedule, ReattemptAt: &at})
	require.NoError(t, err)

	require.NotNil(t, out.Action)
	assert.Equal(t, model.ActionReattempt, out.Action.Kind)
	assert.Equal(t, model.ApprovalAutoApproved, out.Action.ApprovalState)
	assert.Equal(t, model.ExecutionExecuted, out.Action.ExecutionState)
	assert.Equal(t, model.NDRStatusReattemptScheduled, out.NDR.Status)

	again, err := f.uc.RecordResponse(ctx, operator, outreach.RecordResponseInput{NDRID: n.ID, Kind: model.ResponseReschedule})
	require.NoError(t, err)
	assert.Nil(t, again.Action)
}

func TestRecordResponse_NoAnswerDoesNotCountAsResponse(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	n := f.open(t)

	out, err := f.uc.RecordResponse(ctx, operator, outreach.RecordResponseInput{NDRID: n.ID, Kind: model.ResponseNoAnswer})
	require.NoError(t, err)
	assert.Equal(t, model.NDRStatusOpen, out.NDR.Status)

	stats, err := f.uc.Stats(ctx, n.ID)
	require.NoError(t, err)
	assert.False(t, stats.CustomerResponded)

	_, err = f.uc.RecordResponse(ctx, operator, outreach.RecordResponseInput{NDRID: n.ID, Kind: "MAYBE"})
	assert.ErrorIs(t, err, outreach.ErrInvalidResponse)
}
