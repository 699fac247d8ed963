package usecase

import (
	"context"
	"testing"

	"ndr-srv/internal/model"
	"ndr-srv/internal/rule"
	"ndr-srv/internal/rule/repository/memory"

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

var operator = model.Scope{UserID: "op-1", Username: "ops", Role: model.RoleOperator}

func newUseCase() rule.UseCase {
	return New(&testLogger{}, memory.New())
}

func wrongAddressInput() rule.CreateInput {
	return rule.CreateInput{
		Name:     "wrong-address",
		Type:     model.RuleTypeClassification,
		Priority: 10,
		Active:   true,
		Conditions: []model.Condition{{
			Kind:        model.ConditionSignalMatch,
			SignalMatch: &model.SignalMatchCondition{Signals: []model.Signal{model.SignalWrongAddress}},
		}},
		Outcome: model.RuleOutcome{Reason: model.ReasonWrongAddress, Confidence: 0.9},
	}
}

func TestCreateAndUpdateBumpsVersion(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	created, err := uc.Create(ctx, operator, wrongAddressInput())
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	prio := 5
	updated, err := uc.Update(ctx, operator, rule.UpdateInput{ID: created.ID, Priority: &prio})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, 5, updated.Priority)

	history, err := uc.History(ctx, operator, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 10, history[0].Snapshot.Priority)
	assert.Equal(t, 5, history[1].Snapshot.Priority)
}

func TestCreateRejectsInvalidRule(t *testing.T) {
	ip := wrongAddressInput()
	ip.Conditions = nil

	_, err := newUseCase().Create(context.Background(), operator, ip)
	assert.ErrorIs(t, err, rule.ErrNoConditions)
}

func TestViewerCannotCreate(t *testing.T) {
	_, err := newUseCase().Create(context.Background(), model.Scope{Role: model.RoleViewer}, wrongAddressInput())
	assert.ErrorIs(t, err, rule.ErrPermissionDenied)
}

func TestDeactivateRemovesFromActiveSnapshot(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	n, err := uc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(rule.DefaultRules()), n)

	active, err := uc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, n)

	_, err = uc.Deactivate(ctx, operator, active[0].ID)
	require.NoError(t, err)

	active, err = uc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, n-1)

	for i := 1; i < len(active); i++ {
		assert.LessOrEqual(t, active[i-1].Priority, active[i].Priority)
	}
}

func TestSeedDefaultsIsNoopWhenRulesExist(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	_, err := uc.Create(ctx, operator, wrongAddressInput())
	require.NoError(t, err)

	n, err := uc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDetailNotFound(t *testing.T) {
	_, err := newUseCase().Detail(context.Background(), operator, "missing")
	assert.ErrorIs(t, err, rule.ErrRuleNotFound)
}
