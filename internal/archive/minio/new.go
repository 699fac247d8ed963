// Package minio writes closed NDR audit bundles to object storage.
package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"ndr-srv/internal/archive"
	pkgLog "ndr-srv/pkg/log"
	pkgMinio "ndr-srv/pkg/minio"
)

type implArchiver struct {
	l       pkgLog.Logger
	storage pkgMinio.MinIO
}

func New(l pkgLog.Logger, storage pkgMinio.MinIO) archive.Archiver {
	return &implArchiver{l: l, storage: storage}
}

func (a *implArchiver) Archive(ctx context.Context, b archive.Bundle) (string, error) {
	body, err := json.Marshal(b)
	if err != nil {
		return "", err
	}

	name := archive.ObjectName(b.NDR)
	info, err := a.storage.PutObject(ctx, name, "application/json", bytes.NewReader(body), int64(len(body)), map[string]string{
		"ndr-id":      b.NDR.ID,
		"ndr-status":  string(b.NDR.Status),
		"transitions": strconv.Itoa(len(b.Transitions)),
	})
	if err != nil {
		a.l.Errorf(ctx, "internal.archive.minio.Archive.PutObject: %v", err)
		return "", err
	}
	return info.ObjectName, nil
}
