package memory

import (
	"context"
	"testing"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/scheduler/repository"
	"ndr-srv/pkg/paginator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginIsExclusive(t *testing.T) {
	ctx := context.Background()
	r := New()
	now := time.Now()

	run, err := r.Begin(ctx, repository.BeginOptions{Instance: "a", StartedAt: now, DeadlineAt: now.Add(time.Minute)})
	require.NoError(t, err)

	_, err = r.Begin(ctx, repository.BeginOptions{Instance: "b", StartedAt: now, DeadlineAt: now.Add(time.Minute)})
	assert.ErrorIs(t, err, repository.ErrConflict)

	done, err := r.Finish(ctx, repository.FinishOptions{ID: run.ID, Status: model.RunStatusSucceeded, FinishedAt: now, Counters: repository.Counters{Created: 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, done.Created)

	_, err = r.Finish(ctx, repository.FinishOptions{ID: run.ID, Status: model.RunStatusFailed, FinishedAt: now})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = r.Begin(ctx, repository.BeginOptions{Instance: "b", StartedAt: now, DeadlineAt: now.Add(time.Minute)})
	assert.NoError(t, err)
}

func TestReapExpired(t *testing.T) {
	ctx := context.Background()
	r := New()
	now := time.Now()

	stale, err := r.Begin(ctx, repository.BeginOptions{StartedAt: now.Add(-time.Hour), DeadlineAt: now.Add(-time.Minute)})
	require.NoError(t, err)

	reaped, err := r.ReapExpired(ctx, now, "overrun")
	require.NoError(t, err)
	require.Len(t, reaped, 1)
	assert.Equal(t, stale.ID, reaped[0].ID)
	assert.Equal(t, model.RunStatusFailed, reaped[0].Status)

	_, err = r.Running(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	runs, pag, err := r.Get(ctx, repository.GetOptions{Status: model.RunStatusFailed, PaginateQuery: paginator.PaginateQuery{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.EqualValues(t, 1, pag.Total)
}
