package rule

import (
	"testing"
	"time"

	"ndr-srv/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func seeded() []model.Rule {
	rules := DefaultRules()
	for i := range rules {
		rules[i].ID = rules[i].Name
		rules[i].Seq = int64(i + 1)
	}
	Sort(rules)
	return rules
}

func TestDefaultRulesAreValid(t *testing.T) {
	for _, r := range DefaultRules() {
		assert.NoError(t, Validate(r), r.Name)
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	rules := seeded()
	c := model.DeliveryAttemptContext{
		AttemptCount:  1,
		LastAttemptAt: now.Add(-time.Hour),
		Signals:       []model.Signal{model.SignalCustomerUnavailable, model.SignalCustomerRefused},
	}

	got, ok := Classify(rules, c, now)
	require.True(t, ok)
	assert.Equal(t, model.ReasonCustomerRefused, got.Outcome.Reason)
}

func TestClassifyCustomerUnavailable(t *testing.T) {
	c := model.DeliveryAttemptContext{
		AttemptCount:  1,
		LastAttemptAt: now.Add(-time.Hour),
		Signals:       []model.Signal{model.SignalCustomerUnavailable},
	}

	got, ok := Classify(seeded(), c, now)
	require.True(t, ok)
	assert.Equal(t, model.ReasonCustomerUnavailable, got.Outcome.Reason)
	assert.Equal(t, 0.8, got.Outcome.Confidence)
}

func TestClassifySkipsInactive(t *testing.T) {
	rules := seeded()
	for i := range rules {
		if rules[i].Name == "customer-unavailable" {
			rules[i].Active = false
		}
	}
	c := model.DeliveryAttemptContext{AttemptCount: 1, Signals: []model.Signal{model.SignalCustomerUnavailable}}

	got, ok := Classify(rules, c, now)
	require.True(t, ok)
	assert.Equal(t, model.ReasonOther, got.Outcome.Reason)
}

func TestMatchActionsAreCumulative(t *testing.T) {
	c := model.DeliveryAttemptContext{
		AttemptCount:  2,
		LastAttemptAt: now.Add(-60 * time.Hour),
		Signals:       []model.Signal{model.SignalRescheduleRequested},
	}

	got := MatchActions(seeded(), c, now)
	require.Len(t, got, 2)
	assert.Equal(t, model.ActionEscalate, got[0].Outcome.Action)
	assert.Equal(t, model.ActionReattempt, got[1].Outcome.Action)
}

func TestSortByPriorityThenSeq(t *testing.T) {
	rules := []model.Rule{
		{ID: "c", Priority: 20, Seq: 1},
		{ID: "b", Priority: 10, Seq: 3},
		{ID: "a", Priority: 10, Seq: 2},
	}
	Sort(rules)
	assert.Equal(t, []string{"a", "b", "c"}, []string{rules[0].ID, rules[1].ID, rules[2].ID})
}

func TestMatchCondition(t *testing.T) {
	c := model.DeliveryAttemptContext{AttemptCount: 3, LastAttemptAt: now.Add(-30 * time.Hour)}

	tcs := map[string]struct {
		cond model.Condition
		want bool
	}{
		"gte hit":  {model.Condition{Kind: model.ConditionAttemptCount, AttemptCount: &model.AttemptCountCondition{Op: model.CompareGTE, Value: 3}}, true},
		"lte miss": {model.Condition{Kind: model.ConditionAttemptCount, AttemptCount: &model.AttemptCountCondition{Op: model.CompareLTE, Value: 2}}, false},
		"eq hit":   {model.Condition{Kind: model.ConditionAttemptCount, AttemptCount: &model.AttemptCountCondition{Op: model.CompareEQ, Value: 3}}, true},
		"window":   {model.Condition{Kind: model.ConditionTimeSinceLastAttempt, TimeSinceLastAttempt: &model.TimeSinceLastAttemptCondition{MinHours: 24, MaxHours: 48}}, true},
		"too soon": {model.Condition{Kind: model.ConditionTimeSinceLastAttempt, TimeSinceLastAttempt: &model.TimeSinceLastAttemptCondition{MinHours: 48}}, false},
		"no sig":   {model.Condition{Kind: model.ConditionSignalMatch, SignalMatch: &model.SignalMatchCondition{Signals: []model.Signal{model.SignalWrongAddress}}}, false},
		"mismatch": {model.Condition{Kind: model.ConditionSignalMatch}, false},
		"unknown":  {model.Condition{Kind: "weather"}, false},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchCondition(tc.cond, c, now))
		})
	}
}

func TestValidate(t *testing.T) {
	good := DefaultRules()[0]

	noName := good
	noName.Name = ""
	assert.ErrorIs(t, Validate(noName), ErrNameRequired)

	noCond := good
	noCond.Conditions = nil
	assert.ErrorIs(t, Validate(noCond), ErrNoConditions)

	twoPayloads := good
	twoPayloads.Conditions = []model.Condition{{
		Kind:         model.ConditionSignalMatch,
		SignalMatch:  &model.SignalMatchCondition{Signals: []model.Signal{model.SignalWrongAddress}},
		AttemptCount: &model.AttemptCountCondition{Op: model.CompareGTE, Value: 1},
	}}
	assert.ErrorIs(t, Validate(twoPayloads), ErrInvalidCondition)

	badConfidence := good
	badConfidence.Outcome.Confidence = 1.5
	assert.ErrorIs(t, Validate(badConfidence), ErrInvalidOutcome)

	badType := good
	badType.Type = "WORKFLOW"
	assert.ErrorIs(t, Validate(badType), ErrInvalidType)
}
