package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

func (m *implMinIO) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	exists, err := m.client.BucketExists(ctx, m.cfg.Bucket)
	if err != nil {
		m.connected = false
		return NewConnectionError(err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.cfg.Bucket, minio.MakeBucketOptions{Region: m.cfg.Region}); err != nil {
			return handleMinIOError(err, "make_bucket")
		}
	}

	m.connected = true
	return nil
}

func (m *implMinIO) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.connected {
		return NewConnectionError(fmt.Errorf("not connected"))
	}
	if _, err := m.client.BucketExists(ctx, m.cfg.Bucket); err != nil {
		return handleMinIOError(err, "health_check")
	}
	return nil
}

func (m *implMinIO) PutObject(ctx context.Context, objectName, contentType string, r io.Reader, size int64, metadata map[string]string) (*ObjectInfo, error) {
	if err := validateObjectName(objectName); err != nil {
		return nil, err
	}

	info, err := m.client.PutObject(ctx, m.cfg.Bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return nil, handleMinIOError(err, "put_object")
	}

	return &ObjectInfo{
		BucketName:   info.Bucket,
		ObjectName:   info.Key,
		Size:         info.Size,
		ContentType:  contentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
		Metadata:     metadata,
	}, nil
}

func (m *implMinIO) GetObject(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if err := validateObjectName(objectName); err != nil {
		return nil, err
	}
	obj, err := m.client.GetObject(ctx, m.cfg.Bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, handleMinIOError(err, "get_object")
	}
	return obj, nil
}

func (m *implMinIO) ObjectExists(ctx context.Context, objectName string) (bool, error) {
	if err := validateObjectName(objectName); err != nil {
		return false, err
	}
	_, err := m.client.StatObject(ctx, m.cfg.Bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, handleMinIOError(err, "stat_object")
	}
	return true, nil
}

// Close marks the client disconnected. minio-go manages its own pool.
func (m *implMinIO) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}
