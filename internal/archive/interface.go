package archive

import (
	"context"
	"time"

	"ndr-srv/internal/model"
)

// Bundle is the audit record written when an NDR is closed.
type Bundle struct {
	NDR         model.NDR          `json:"ndr"`
	Transitions []model.Transition `json:"transitions"`
	ArchivedAt  time.Time          `json:"archived_at"`
}

// Archiver stores closed NDR bundles. Archiving the same NDR twice overwrites the object.
//
//go:generate mockery --name Archiver
type Archiver interface {
	Archive(ctx context.Context, b Bundle) (string, error)
}

type nopArchiver struct{}

func Nop() Archiver { return nopArchiver{} }

func (nopArchiver) Archive(ctx context.Context, b Bundle) (string, error) { return "", nil }

// ObjectName is the storage key of an NDR bundle, partitioned by close month.
func ObjectName(n model.NDR) string {
	at := n.UpdatedAt
	if n.ClosedAt != nil {
		at = *n.ClosedAt
	}
	return "ndr/" + at.UTC().Format("2006/01") + "/" + n.Code + ".json"
}
