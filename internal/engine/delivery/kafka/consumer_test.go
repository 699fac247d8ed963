package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ndr-srv/internal/engine"
	pkgKafka "ndr-srv/pkg/kafka"

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

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Scan(ctx context.Context) (engine.ScanResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(engine.ScanResult), args.Error(1)
}

func (m *mockEngine) Evaluate(ctx context.Context, deliveryID string) (engine.EvaluationResult, error) {
	args := m.Called(ctx, deliveryID)
	return args.Get(0).(engine.EvaluationResult), args.Error(1)
}

// fakeReader serves queued messages then cancels the run.
type fakeReader struct {
	mu        sync.Mutex
	queue     []DeliveryAttemptMessage
	committed []string
	cancel    context.CancelFunc
}

func (r *fakeReader) Read(ctx context.Context, out any) (pkgKafka.CommitFunc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		r.cancel()
		return nil, context.Canceled
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	*out.(*DeliveryAttemptMessage) = msg
	return func(ctx context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.committed = append(r.committed, msg.DeliveryID)
		return nil
	}, nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsumerRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		queue: []DeliveryAttemptMessage{
			{DeliveryID: "d-1"},
			{DeliveryID: "d-missing"},
			{DeliveryID: "d-down"},
			{DeliveryID: "d-rule"},
			{},
		},
	}
	uc := &mockEngine{}
	uc.On("Evaluate", mock.Anything, "d-1").Return(engine.EvaluationResult{Outcome: engine.OutcomeCreated}, nil)
	uc.On("Evaluate", mock.Anything, "d-missing").Return(engine.EvaluationResult{}, engine.ErrDeliveryNotFound)
	uc.On("Evaluate", mock.Anything, "d-down").Return(engine.EvaluationResult{}, errors.New("rules unavailable"))
	uc.On("Evaluate", mock.Anything, "d-rule").Return(engine.EvaluationResult{Outcome: engine.OutcomeFailed},
		&engine.RuleEvaluationError{DeliveryID: "d-rule", Err: errors.New("boom")})

	c := New(&testLogger{}, reader, uc, nil)
	require.NoError(t, c.Run(ctx))

	// d-down is left uncommitted for redelivery.
	assert.Equal(t, []string{"d-1", "d-missing", "d-rule", ""}, reader.committed)
	uc.AssertNumberOfCalls(t, "Evaluate", 4)
}
