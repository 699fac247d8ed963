package http

import (
	"testing"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunResp(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)

	resp := newRunResp(model.SchedulerRun{ID: "r-1", Status: model.RunStatusSucceeded, StartedAt: start, DeadlineAt: start.Add(time.Minute), FinishedAt: &end, Created: 2})
	assert.Equal(t, int64(1500), resp.DurationMs)
	assert.Equal(t, "succeeded", resp.Status)
	assert.NotNil(t, resp.FinishedAt)

	running := newRunResp(model.SchedulerRun{ID: "r-2", Status: model.RunStatusRunning, StartedAt: start})
	assert.Zero(t, running.DurationMs)
	assert.Nil(t, running.FinishedAt)
}

func TestNewTickResp(t *testing.T) {
	skipped := newTickResp(scheduler.TickOutput{Skipped: true})
	assert.True(t, skipped.Skipped)
	assert.Nil(t, skipped.Run)

	ran := newTickResp(scheduler.TickOutput{Run: model.SchedulerRun{ID: "r-1", Status: model.RunStatusSucceeded}})
	require.NotNil(t, ran.Run)
	assert.Equal(t, "r-1", ran.Run.ID)
}
