package rule

import "ndr-srv/internal/model"

func signalRule(name string, priority int, signal model.Signal, reason model.Reason, confidence float64) model.Rule {
	return model.Rule{
		Name:     name,
		Type:     model.RuleTypeClassification,
		Priority: priority,
		Active:   true,
		Conditions: []model.Condition{{
			Kind:        model.ConditionSignalMatch,
			SignalMatch: &model.SignalMatchCondition{Signals: []model.Signal{signal}},
		}},
		Outcome: model.RuleOutcome{Reason: reason, Confidence: confidence},
	}
}

// DefaultRules is the rule set installed on an empty store.
// Specific carrier signals classify first; any failed attempt falls through to OTHER.
func DefaultRules() []model.Rule {
	return []model.Rule{
		signalRule("customer-refused", 10, model.SignalCustomerRefused, model.ReasonCustomerRefused, 0.95),
		signalRule("wrong-address", 20, model.SignalWrongAddress, model.ReasonWrongAddress, 0.9),
		signalRule("phone-unreachable", 30, model.SignalPhoneUnreachable, model.ReasonPhoneUnreachable, 0.85),
		signalRule("cod-not-ready", 40, model.SignalCODNotReady, model.ReasonCODNotReady, 0.85),
		signalRule("reschedule-requested", 50, model.SignalRescheduleRequested, model.ReasonRescheduleRequested, 0.9),
		signalRule("customer-unavailable", 60, model.SignalCustomerUnavailable, model.ReasonCustomerUnavailable, 0.8),
		{
			Name:     "failed-attempt-other",
			Type:     model.RuleTypeClassification,
			Priority: 90,
			Active:   true,
			Conditions: []model.Condition{{
				Kind:         model.ConditionAttemptCount,
				AttemptCount: &model.AttemptCountCondition{Op: model.CompareGTE, Value: 1},
			}},
			Outcome: model.RuleOutcome{Reason: model.ReasonOther, Confidence: 0.5},
		},
		{
			Name:        "escalate-stale",
			Description: "no progress 48h after the second failed attempt",
			Type:        model.RuleTypeAction,
			Priority:    100,
			Active:      true,
			Conditions: []model.Condition{
				{
					Kind:         model.ConditionAttemptCount,
					AttemptCount: &model.AttemptCountCondition{Op: model.CompareGTE, Value: 2},
				},
				{
					Kind:                 model.ConditionTimeSinceLastAttempt,
					TimeSinceLastAttempt: &model.TimeSinceLastAttemptCondition{MinHours: 48},
				},
			},
			Outcome: model.RuleOutcome{Action: model.ActionEscalate},
		},
		{
			Name:     "reschedule-reattempt",
			Type:     model.RuleTypeAction,
			Priority: 110,
			Active:   true,
			Conditions: []model.Condition{{
				Kind:        model.ConditionSignalMatch,
				SignalMatch: &model.SignalMatchCondition{Signals: []model.Signal{model.SignalRescheduleRequested}},
			}},
			Outcome: model.RuleOutcome{Action: model.ActionReattempt},
		},
	}
}
