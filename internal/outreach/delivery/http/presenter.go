package http

import (
	"strings"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/outreach"
	"ndr-srv/pkg/response"
)

type sendReq struct {
	Channel string `json:"channel" binding:"required"`
	Message string `json:"message"`
}

func (r sendReq) toInput(ndrID string) outreach.SendInput {
	return outreach.SendInput{
		NDRID:           ndrID,
		Channel:         model.Channel(strings.ToUpper(r.Channel)),
		MessageOverride: r.Message,
	}
}

type responseReq struct {
	Kind        string     `json:"kind" binding:"required"`
	Note        string     `json:"note"`
	ReattemptAt *time.Time `json:"reattempt_at"`
}

func (r responseReq) toInput(ndrID string) outreach.RecordResponseInput {
	return outreach.RecordResponseInput{
		NDRID:       ndrID,
		Kind:        model.ResponseKind(strings.ToUpper(r.Kind)),
		Note:        r.Note,
		ReattemptAt: r.ReattemptAt,
	}
}

type attemptResp struct {
	ID               string             `json:"id"`
	AttemptNumber    int                `json:"attempt_number"`
	Channel          string             `json:"channel"`
	Recipient        string             `json:"recipient"`
	Content          string             `json:"content"`
	Operator         bool               `json:"operator"`
	Actor            model.Actor        `json:"actor"`
	Outcome          string             `json:"outcome"`
	ProviderRef      string             `json:"provider_ref,omitempty"`
	ProviderResponse string             `json:"provider_response,omitempty"`
	Error            string             `json:"error,omitempty"`
	CreatedAt        *response.DateTime `json:"created_at"`
	CompletedAt      *response.DateTime `json:"completed_at,omitempty"`
}

func newAttemptResp(a model.OutreachAttempt) attemptResp {
	return attemptResp{
		ID:               a.ID,
		AttemptNumber:    a.AttemptNumber,
		Channel:          string(a.Channel),
		Recipient:        maskRecipient(a.Recipient),
		Content:          a.Content,
		Operator:         a.Operator,
		Actor:            a.Actor,
		Outcome:          string(a.Outcome),
		ProviderRef:      a.ProviderRef,
		ProviderResponse: a.ProviderResponse,
		Error:            a.Error,
		CreatedAt:        response.NewDateTime(&a.CreatedAt),
		CompletedAt:      response.NewDateTime(a.CompletedAt),
	}
}

func newAttemptsResp(list []model.OutreachAttempt) []attemptResp {
	out := make([]attemptResp, 0, len(list))
	for _, a := range list {
		out = append(out, newAttemptResp(a))
	}
	return out
}

// maskRecipient keeps the first and last characters: "+84******001", "a***@example.com".
func maskRecipient(s string) string {
	if s == "" {
		return ""
	}
	if at := strings.IndexByte(s, '@'); at > 0 {
		return s[:1] + strings.Repeat("*", max(at-1, 1)) + s[at:]
	}
	if len(s) <= 6 {
		return strings.Repeat("*", len(s))
	}
	return s[:3] + strings.Repeat("*", len(s)-6) + s[len(s)-3:]
}

type sendResp struct {
	Success          bool        `json:"success"`
	ProviderResponse string      `json:"provider_response,omitempty"`
	Attempt          attemptResp `json:"attempt"`
	NDRStatus        string      `json:"ndr_status"`
}

func newSendResp(o outreach.SendOutput) sendResp {
	return sendResp{
		Success:          o.Success,
		ProviderResponse: o.ProviderResponse,
		Attempt:          newAttemptResp(o.Attempt),
		NDRStatus:        string(o.NDR.Status),
	}
}

type customerResponseResp struct {
	ID          string             `json:"id"`
	Kind        string             `json:"kind"`
	Note        string             `json:"note,omitempty"`
	ReattemptAt *response.DateTime `json:"reattempt_at,omitempty"`
	RecordedBy  string             `json:"recorded_by"`
	CreatedAt   *response.DateTime `json:"created_at"`
}

func newCustomerResponseResp(r model.CustomerResponse) customerResponseResp {
	return customerResponseResp{
		ID:          r.ID,
		Kind:        string(r.Kind),
		Note:        r.Note,
		ReattemptAt: response.NewDateTime(r.ReattemptAt),
		RecordedBy:  r.RecordedBy,
		CreatedAt:   response.NewDateTime(&r.CreatedAt),
	}
}

type recordResponseResp struct {
	Response  customerResponseResp `json:"response"`
	NDRStatus string               `json:"ndr_status"`
	ActionID  string               `json:"action_id,omitempty"`
}

func newRecordResponseResp(o outreach.RecordResponseOutput) recordResponseResp {
	resp := recordResponseResp{
		Response:  newCustomerResponseResp(o.Response),
		NDRStatus: string(o.NDR.Status),
	}
	if o.Action != nil {
		resp.ActionID = o.Action.ID
	}
	return resp
}
