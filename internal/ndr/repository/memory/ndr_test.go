package memory

import (
	"context"
	"testing"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestByDelivery_SameCreatedAt(t *testing.T) {
	ctx := context.Background()
	r := New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r.clock = func() time.Time { return now }

	var last model.NDR
	for i := 0; i < 5; i++ {
		n, err := r.Create(ctx, repository.CreateOptions{
			NDR:        model.NDR{DeliveryID: "d-1", Status: model.NDRStatusOpen},
			Transition: model.Transition{To: model.NDRStatusOpen, CreatedAt: now},
		})
		require.NoError(t, err)

		closed := n
		closed.Status = model.NDRStatusClosed
		last, err = r.Update(ctx, repository.UpdateOptions{NDR: closed, ExpectedVersion: n.Version})
		require.NoError(t, err)
	}

	for i := 0; i < 20; i++ {
		got, err := r.LatestByDelivery(ctx, "d-1")
		require.NoError(t, err)
		assert.Equal(t, last.ID, got.ID)
	}

	_, err := r.LatestByDelivery(ctx, "d-2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
