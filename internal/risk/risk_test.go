package risk

import (
	"testing"
	"time"

	"ndr-srv/internal/model"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestScore(t *testing.T) {
	tcs := map[string]struct {
		in       Signals
		score    int
		priority model.Priority
	}{
		"single fresh attempt": {
			in:       Signals{AttemptCount: 1, AddressQuality: model.AddressQualityGood, LastAttemptAt: now.Add(-2 * time.Hour), Now: now},
			score:    12,
			priority: model.PriorityLow,
		},
		"three attempts no response": {
			in:       Signals{AttemptCount: 3, ContactAttempts: 2, FailedContacts: 1, LastAttemptAt: now.Add(-50 * time.Hour), Now: now},
			score:    36 + 10 + 3 + 10,
			priority: model.PriorityHigh,
		},
		"responded lowers score": {
			in:       Signals{AttemptCount: 2, ContactAttempts: 3, CustomerResponded: true, Now: now},
			score:    14,
			priority: model.PriorityLow,
		},
		"poor address stale": {
			in:       Signals{AttemptCount: 2, ContactAttempts: 1, AddressQuality: model.AddressQualityPoor, LastAttemptAt: now.Add(-80 * time.Hour), Now: now},
			score:    24 + 5 + 20 + 15,
			priority: model.PriorityHigh,
		},
		"capped at max": {
			in:       Signals{AttemptCount: 9, ContactAttempts: 9, FailedContacts: 9, AddressQuality: model.AddressQualityPoor, LastAttemptAt: now.Add(-100 * time.Hour), Now: now},
			score:    100,
			priority: model.PriorityCritical,
		},
		"never negative": {
			in:       Signals{CustomerResponded: true, Now: now},
			score:    0,
			priority: model.PriorityLow,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			got := Score(tc.in)
			assert.Equal(t, tc.score, got.Score)
			assert.Equal(t, tc.priority, got.Priority)
		})
	}
}

func TestScoreIsPure(t *testing.T) {
	in := Signals{AttemptCount: 3, ContactAttempts: 1, AddressQuality: model.AddressQualityUnverified, LastAttemptAt: now.Add(-30 * time.Hour), Now: now}
	assert.Equal(t, Score(in), Score(in))
}

func TestBand(t *testing.T) {
	assert.Equal(t, model.PriorityLow, Band(0))
	assert.Equal(t, model.PriorityLow, Band(24))
	assert.Equal(t, model.PriorityMedium, Band(25))
	assert.Equal(t, model.PriorityMedium, Band(49))
	assert.Equal(t, model.PriorityHigh, Band(50))
	assert.Equal(t, model.PriorityHigh, Band(74))
	assert.Equal(t, model.PriorityCritical, Band(75))
	assert.Equal(t, model.PriorityCritical, Band(100))
}

func TestPriorityNeverDropsWithoutSignalDrop(t *testing.T) {
	base := Signals{AttemptCount: 2, ContactAttempts: 1, LastAttemptAt: now.Add(-30 * time.Hour), Now: now}
	more := base
	more.AttemptCount = 3
	assert.GreaterOrEqual(t, Score(more).Priority.Rank(), Score(base).Priority.Rank())
	assert.GreaterOrEqual(t, Score(more).Score, Score(base).Score)
}
