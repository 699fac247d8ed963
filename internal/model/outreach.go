package model

import "time"

type Channel string

const (
	ChannelSMS      Channel = "SMS"
	ChannelWhatsApp Channel = "WHATSAPP"
	ChannelVoice    Channel = "VOICE"
	ChannelEmail    Channel = "EMAIL"
)

var Channels = []Channel{ChannelSMS, ChannelWhatsApp, ChannelVoice, ChannelEmail}

func (c Channel) IsValid() bool {
	for _, v := range Channels {
		if c == v {
			return true
		}
	}
	return false
}

type OutreachOutcome string

const (
	OutreachPending OutreachOutcome = "PENDING"
	OutreachSuccess OutreachOutcome = "SUCCESS"
	OutreachFailed  OutreachOutcome = "FAILED"
)

// OutreachAttempt is one customer contact. Only Outcome and the provider fields
// move, once, from PENDING to the final result.
type OutreachAttempt struct {
	ID               string          `json:"id"`
	NDRID            string          `json:"ndr_id"`
	AttemptNumber    int             `json:"attempt_number"`
	Channel          Channel         `json:"channel"`
	Recipient        string          `json:"recipient"`
	Content          string          `json:"content"`
	Operator         bool            `json:"operator"`
	Actor            Actor           `json:"actor"`
	Outcome          OutreachOutcome `json:"outcome"`
	ProviderRef      string          `json:"provider_ref,omitempty"`
	ProviderResponse string          `json:"provider_response,omitempty"`
	Error            string          `json:"error,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
}

type ResponseKind string

const (
	ResponseReschedule ResponseKind = "RESCHEDULE"
	ResponseConfirmed  ResponseKind = "CONFIRMED"
	ResponseRefused    ResponseKind = "REFUSED"
	ResponseNoAnswer   ResponseKind = "NO_ANSWER"
)

func (k ResponseKind) IsValid() bool {
	switch k {
	case ResponseReschedule, ResponseConfirmed, ResponseRefused, ResponseNoAnswer:
		return true
	}
	return false
}

// Answered is true when the customer actually engaged. NO_ANSWER is not an answer.
func (k ResponseKind) Answered() bool {
	return k == ResponseReschedule || k == ResponseConfirmed || k == ResponseRefused
}

// CustomerResponse records what the customer answered to outreach.
type CustomerResponse struct {
	ID          string       `json:"id"`
	NDRID       string       `json:"ndr_id"`
	Kind        ResponseKind `json:"kind"`
	Note        string       `json:"note,omitempty"`
	ReattemptAt *time.Time   `json:"reattempt_at,omitempty"`
	RecordedBy  string       `json:"recorded_by"`
	CreatedAt   time.Time    `json:"created_at"`
}

// OutreachStats summarises contact history for risk scoring.
type OutreachStats struct {
	Attempts          int        `json:"attempts"`
	Succeeded         int        `json:"succeeded"`
	Failed            int        `json:"failed"`
	CustomerResponded bool       `json:"customer_responded"`
	LastAttemptAt     *time.Time `json:"last_attempt_at,omitempty"`
}
