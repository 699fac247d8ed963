package response

import (
	"encoding/json"
	"time"
)

// Resp is the envelope of every JSON response.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

type DateTime time.Time

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Local().Format(DateTimeFormat))
}

// NewDateTime returns nil for a nil or zero time so optional timestamps are omitted.
func NewDateTime(t *time.Time) *DateTime {
	if t == nil || t.IsZero() {
		return nil
	}
	d := DateTime(*t)
	return &d
}
