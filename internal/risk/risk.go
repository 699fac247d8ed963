// Package risk maps delivery-attempt signals to a 0-100 risk score and a priority tier.
// Everything here is pure: the same Signals always yield the same Assessment.
package risk

import (
	"time"

	"ndr-srv/internal/model"
)

const (
	MinScore = 0
	MaxScore = 100

	pointsPerAttempt       = 12
	maxScoredAttempts      = 5
	pointsPerUnanswered    = 5
	maxScoredUnanswered    = 4
	pointsPerFailedContact = 3
	maxScoredFailed        = 4
	respondedCredit        = 10

	poorAddressPoints       = 20
	unverifiedAddressPoints = 8

	criticalThreshold = 75
	highThreshold     = 50
	mediumThreshold   = 25
)

// Signals are the inputs of a risk computation. Now is explicit so the result
// does not depend on the wall clock.
type Signals struct {
	AttemptCount      int
	ContactAttempts   int
	FailedContacts    int
	CustomerResponded bool
	AddressQuality    model.AddressQuality
	LastAttemptAt     time.Time
	Now               time.Time
}

type Factor struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type Assessment struct {
	Score    int            `json:"score"`
	Priority model.Priority `json:"priority"`
	Factors  []Factor       `json:"factors"`
}

// Score computes the assessment for s.
func Score(s Signals) Assessment {
	var factors []Factor
	add := func(name string, points int) {
		if points != 0 {
			factors = append(factors, Factor{Name: name, Points: points})
		}
	}

	add("delivery_attempts", min(max(s.AttemptCount, 0), maxScoredAttempts)*pointsPerAttempt)

	if s.CustomerResponded {
		add("customer_responded", -respondedCredit)
	} else {
		add("unanswered_contacts", min(max(s.ContactAttempts, 0), maxScoredUnanswered)*pointsPerUnanswered)
	}
	add("failed_contacts", min(max(s.FailedContacts, 0), maxScoredFailed)*pointsPerFailedContact)

	switch s.AddressQuality {
	case model.AddressQualityPoor:
		add("address_poor", poorAddressPoints)
	case model.AddressQualityUnverified:
		add("address_unverified", unverifiedAddressPoints)
	}

	if !s.LastAttemptAt.IsZero() && !s.Now.IsZero() {
		add("time_since_last_attempt", stalenessPoints(s.Now.Sub(s.LastAttemptAt)))
	}

	total := 0
	for _, f := range factors {
		total += f.Points
	}
	score := clamp(total)

	return Assessment{Score: score, Priority: Band(score), Factors: factors}
}

// Band derives the priority tier from a score.
func Band(score int) model.Priority {
	switch {
	case score >= criticalThreshold:
		return model.PriorityCritical
	case score >= highThreshold:
		return model.PriorityHigh
	case score >= mediumThreshold:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

func stalenessPoints(d time.Duration) int {
	switch {
	case d >= 72*time.Hour:
		return 15
	case d >= 48*time.Hour:
		return 10
	case d >= 24*time.Hour:
		return 5
	default:
		return 0
	}
}

func clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
