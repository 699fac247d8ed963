package minio

import (
	"fmt"

	"github.com/minio/minio-go/v7"
)

const (
	ErrCodeConnection     = "CONNECTION_ERROR"
	ErrCodeBucketNotFound = "BUCKET_NOT_FOUND"
	ErrCodeObjectNotFound = "OBJECT_NOT_FOUND"
	ErrCodePermission     = "PERMISSION_DENIED"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeOperation      = "OPERATION_FAILED"
)

// StorageError represents an error that occurred during a MinIO storage operation.
type StorageError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Operation string `json:"operation"`
	Cause     error  `json:"-"`
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s", e.Message, e.Operation, e.Cause.Error())
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func NewConnectionError(err error) *StorageError {
	return &StorageError{Code: ErrCodeConnection, Message: "Storage connection failed", Operation: "connect", Cause: err}
}

func NewInvalidInputError(message string) *StorageError {
	return &StorageError{Code: ErrCodeInvalidInput, Message: message}
}

// handleMinIOError maps minio-go error responses onto StorageError codes.
func handleMinIOError(err error, operation string) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	code := ErrCodeOperation
	switch resp.Code {
	case "NoSuchBucket":
		code = ErrCodeBucketNotFound
	case "NoSuchKey":
		code = ErrCodeObjectNotFound
	case "AccessDenied":
		code = ErrCodePermission
	}
	return &StorageError{Code: code, Message: "Storage operation failed", Operation: operation, Cause: err}
}
