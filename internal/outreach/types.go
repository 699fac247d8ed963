package outreach

import (
	"time"

	"ndr-srv/internal/model"
)

type SendInput struct {
	NDRID   string
	Channel model.Channel
	// MessageOverride replaces the rendered template when set.
	MessageOverride string
	Actor           model.Actor
}

type SendOutput struct {
	Attempt model.OutreachAttempt
	Success bool
	// ProviderResponse is the raw provider answer kept for the attempt log.
	ProviderResponse string
	NDR              model.NDR
}

type TransportResult struct {
	ProviderRef string
	Response    string
}

// TemplateData is what message templates may reference.
type TemplateData struct {
	NDRCode        string
	CustomerName   string
	OrderCode      string
	Carrier        string
	TrackingNumber string
	AttemptCount   int
	CODAmount      float64
}

type RecordResponseInput struct {
	NDRID       string
	Kind        model.ResponseKind
	Note        string
	ReattemptAt *time.Time
}

type RecordResponseOutput struct {
	Response model.CustomerResponse
	NDR      model.NDR
	// Action is the reattempt proposal raised by a RESCHEDULE answer.
	Action *model.Action
}
