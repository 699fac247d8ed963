package minio

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	maxIdleConns        = 50
	maxIdleConnsPerHost = 50
	idleConnTimeout     = 90 * time.Second
)

// MinIO is the subset of object storage operations used for audit archiving.
type MinIO interface {
	// Connect verifies the endpoint is reachable and creates the bucket when missing.
	Connect(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	PutObject(ctx context.Context, objectName, contentType string, r io.Reader, size int64, metadata map[string]string) (*ObjectInfo, error)
	GetObject(ctx context.Context, objectName string) (io.ReadCloser, error)
	ObjectExists(ctx context.Context, objectName string) (bool, error)
	Close() error
}

type implMinIO struct {
	client    *minio.Client
	cfg       Config
	mu        sync.RWMutex
	connected bool
}

// New creates a MinIO client. Call Connect before use.
func New(cfg Config) (MinIO, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
		Transport: &http.Transport{
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			IdleConnTimeout:     idleConnTimeout,
		},
	})
	if err != nil {
		return nil, NewConnectionError(err)
	}

	return &implMinIO{client: client, cfg: cfg}, nil
}

func validateConfig(cfg Config) error {
	switch {
	case strings.TrimSpace(cfg.Endpoint) == "":
		return NewInvalidInputError("endpoint is required")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return NewInvalidInputError("access key and secret key are required")
	case len(cfg.Bucket) < 3 || len(cfg.Bucket) > 63:
		return NewInvalidInputError("bucket name must be between 3 and 63 characters")
	}
	return nil
}

func validateObjectName(name string) error {
	if name == "" || len(name) > 1024 || strings.HasPrefix(name, "/") {
		return NewInvalidInputError("invalid object name: " + name)
	}
	return nil
}
