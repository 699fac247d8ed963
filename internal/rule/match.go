package rule

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"ndr-srv/internal/model"
)

// Matches reports whether every condition of r holds for c at now.
// Inactive rules and rules without conditions never match.
func Matches(r model.Rule, c model.DeliveryAttemptContext, now time.Time) bool {
	if !r.Active || len(r.Conditions) == 0 {
		return false
	}
	for _, cond := range r.Conditions {
		if !MatchCondition(cond, c, now) {
			return false
		}
	}
	return true
}

func MatchCondition(cond model.Condition, c model.DeliveryAttemptContext, now time.Time) bool {
	switch cond.Kind {
	case model.ConditionAttemptCount:
		p := cond.AttemptCount
		if p == nil {
			return false
		}
		switch p.Op {
		case model.CompareGTE:
			return c.AttemptCount >= p.Value
		case model.CompareLTE:
			return c.AttemptCount <= p.Value
		case model.CompareEQ:
			return c.AttemptCount == p.Value
		}
		return false

	case model.ConditionSignalMatch:
		p := cond.SignalMatch
		if p == nil {
			return false
		}
		for _, s := range p.Signals {
			if c.HasSignal(s) {
				return true
			}
		}
		return false

	case model.ConditionTimeSinceLastAttempt:
		p := cond.TimeSinceLastAttempt
		if p == nil || c.LastAttemptAt.IsZero() {
			return false
		}
		elapsed := now.Sub(c.LastAttemptAt)
		if elapsed < time.Duration(p.MinHours)*time.Hour {
			return false
		}
		return p.MaxHours == 0 || elapsed < time.Duration(p.MaxHours)*time.Hour
	}
	return false
}

// Sort orders rules by priority ascending, then creation order.
func Sort(rules []model.Rule) {
	slices.SortStableFunc(rules, func(a, b model.Rule) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
}

// Classify returns the first classification rule in rules matching c.
// rules must already be in evaluation order.
func Classify(rules []model.Rule, c model.DeliveryAttemptContext, now time.Time) (model.Rule, bool) {
	for _, r := range rules {
		if r.Type == model.RuleTypeClassification && Matches(r, c, now) {
			return r, true
		}
	}
	return model.Rule{}, false
}

// MatchActions returns every action rule in rules matching c, in order.
func MatchActions(rules []model.Rule, c model.DeliveryAttemptContext, now time.Time) []model.Rule {
	var out []model.Rule
	for _, r := range rules {
		if r.Type == model.RuleTypeAction && Matches(r, c, now) {
			out = append(out, r)
		}
	}
	return out
}

// Validate checks the shape of a rule before it is stored.
func Validate(r model.Rule) error {
	if r.Name == "" {
		return ErrNameRequired
	}
	if r.Priority < 0 {
		return ErrInvalidPriority
	}
	if len(r.Conditions) == 0 {
		return ErrNoConditions
	}
	for i, cond := range r.Conditions {
		if err := validateCondition(cond); err != nil {
			return fmt.Errorf("%w at index %d: %v", ErrInvalidCondition, i, err)
		}
	}

	switch r.Type {
	case model.RuleTypeClassification:
		if !r.Outcome.Reason.IsValid() {
			return fmt.Errorf("%w: unknown reason %q", ErrInvalidOutcome, r.Outcome.Reason)
		}
		if r.Outcome.Confidence <= 0 || r.Outcome.Confidence > 1 {
			return fmt.Errorf("%w: confidence must be in (0, 1]", ErrInvalidOutcome)
		}
		if r.Outcome.Action != "" {
			return fmt.Errorf("%w: classification rules carry no action", ErrInvalidOutcome)
		}
	case model.RuleTypeAction:
		if !r.Outcome.Action.IsValid() {
			return fmt.Errorf("%w: unknown action %q", ErrInvalidOutcome, r.Outcome.Action)
		}
	default:
		return ErrInvalidType
	}
	return nil
}

func validateCondition(cond model.Condition) error {
	set := 0
	if cond.AttemptCount != nil {
		set++
	}
	if cond.SignalMatch != nil {
		set++
	}
	if cond.TimeSinceLastAttempt != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("exactly one payload must be set, got %d", set)
	}

	switch cond.Kind {
	case model.ConditionAttemptCount:
		p := cond.AttemptCount
		if p == nil {
			return fmt.Errorf("missing attempt_count payload")
		}
		if p.Op != model.CompareGTE && p.Op != model.CompareLTE && p.Op != model.CompareEQ {
			return fmt.Errorf("unknown operator %q", p.Op)
		}
		if p.Value < 0 {
			return fmt.Errorf("value must not be negative")
		}
	case model.ConditionSignalMatch:
		if cond.SignalMatch == nil || len(cond.SignalMatch.Signals) == 0 {
			return fmt.Errorf("signal_match needs at least one signal")
		}
	case model.ConditionTimeSinceLastAttempt:
		p := cond.TimeSinceLastAttempt
		if p == nil {
			return fmt.Errorf("missing time_since_last_attempt payload")
		}
		if p.MinHours < 0 || p.MaxHours < 0 || (p.MaxHours != 0 && p.MaxHours <= p.MinHours) {
			return fmt.Errorf("invalid hour bounds")
		}
	default:
		return fmt.Errorf("unknown kind %q", cond.Kind)
	}
	return nil
}
