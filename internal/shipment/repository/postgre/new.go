package postgres

import (
	"database/sql"

	"ndr-srv/internal/shipment"
	pkgLog "ndr-srv/pkg/log"
)

type implStore struct {
	l  pkgLog.Logger
	db *sql.DB
}

var _ shipment.Store = &implStore{}

func New(l pkgLog.Logger, db *sql.DB) *implStore {
	return &implStore{
		l:  l,
		db: db,
	}
}
