package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ndr-srv/internal/alert"
	"ndr-srv/pkg/discord"

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

type mockDiscord struct {
	mock.Mock
}

func (m *mockDiscord) SendMessage(ctx context.Context, content string) error {
	return m.Called(ctx, content).Error(0)
}

func (m *mockDiscord) SendEmbed(ctx context.Context, options discord.MessageOptions) error {
	return m.Called(ctx, options).Error(0)
}

func (m *mockDiscord) SendError(ctx context.Context, title, description string, err error) error {
	return m.Called(ctx, title, description, err).Error(0)
}

func (m *mockDiscord) SendWarning(ctx context.Context, title, description string) error {
	return m.Called(ctx, title, description).Error(0)
}

func (m *mockDiscord) ReportBug(ctx context.Context, message string) error {
	return m.Called(ctx, message).Error(0)
}

func (m *mockDiscord) Close() error { return nil }

func TestDispatchEscalation(t *testing.T) {
	d := &mockDiscord{}
	d.On("SendEmbed", mock.Anything, mock.MatchedBy(func(o discord.MessageOptions) bool {
		return o.Type == discord.MessageTypeError && o.Title == "NDR escalated: NDR-260301-ABCDEF"
	})).Return(nil).Once()

	uc := New(&testLogger{}, d)
	err := uc.DispatchEscalation(context.Background(), alert.EscalationInput{
		NDRID:       "n-1",
		Code:        "NDR-260301-ABCDEF",
		Priority:    "CRITICAL",
		RiskScore:   88,
		EscalatedAt: time.Now(),
	})
	require.NoError(t, err)
	d.AssertExpectations(t)
}

func TestDispatchEscalation_InvalidInput(t *testing.T) {
	uc := New(&testLogger{}, &mockDiscord{})
	err := uc.DispatchEscalation(context.Background(), alert.EscalationInput{})
	assert.ErrorIs(t, err, alert.ErrInvalidInput)
}

func TestDispatchSchedulerOverrun_SendFails(t *testing.T) {
	d := &mockDiscord{}
	d.On("SendEmbed", mock.Anything, mock.Anything).Return(errors.New("webhook down"))

	uc := New(&testLogger{}, d)
	err := uc.DispatchSchedulerOverrun(context.Background(), alert.SchedulerOverrunInput{RunID: "r-1"})
	assert.ErrorIs(t, err, alert.ErrDispatchFailed)
}

func TestDispatch_NilDiscord(t *testing.T) {
	uc := New(&testLogger{}, nil)
	err := uc.DispatchApprovalPending(context.Background(), alert.ApprovalPendingInput{ActionID: "a-1", Kind: "RTO"})
	assert.NoError(t, err)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc", truncateText("abc", 5))
	assert.Equal(t, "ab...", truncateText("abcdefgh", 5))
	assert.Equal(t, "ab", truncateText("abcdefgh", 2))
}
