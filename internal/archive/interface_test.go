package archive

import (
	"testing"
	"time"

	"ndr-srv/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	closed := time.Date(2026, 4, 2, 23, 0, 0, 0, time.UTC)
	n := model.NDR{Code: "NDR-260401-ABC123", ClosedAt: &closed, UpdatedAt: closed.Add(-time.Hour)}
	assert.Equal(t, "ndr/2026/04/NDR-260401-ABC123.json", ObjectName(n))

	n.ClosedAt = nil
	n.UpdatedAt = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "ndr/2026/01/NDR-260401-ABC123.json", ObjectName(n))
}
