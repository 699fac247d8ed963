package outreach

import (
	"errors"
	"fmt"

	"ndr-srv/internal/model"
)

var (
	ErrNDRNotFound      = errors.New("ndr not found")
	ErrNDRNotActive     = errors.New("ndr is not active")
	ErrInvalidChannel   = errors.New("invalid channel")
	ErrNoTransport      = errors.New("no transport configured for channel")
	ErrNoRecipient      = errors.New("customer has no contact for channel")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrInvalidResponse  = errors.New("invalid response kind")
	ErrPermissionDenied = errors.New("permission denied")
)

// SendFailureError is a transport failure. The attempt is already recorded as FAILED
// and the NDR status is untouched, so the caller may retry on another channel.
type SendFailureError struct {
	AttemptNumber int
	Channel       model.Channel
	Err           error
}

func (e *SendFailureError) Error() string {
	return fmt.Sprintf("outreach attempt %d via %s failed: %v", e.AttemptNumber, e.Channel, e.Err)
}

func (e *SendFailureError) Unwrap() error {
	return e.Err
}
