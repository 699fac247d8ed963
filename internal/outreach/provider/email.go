package provider

import (
	"context"

	"ndr-srv/internal/model"
	"ndr-srv/internal/outreach"
	"ndr-srv/pkg/ses"
)

const defaultEmailSubject = "About your delivery"

type emailTransport struct {
	sender  ses.Sender
	subject string
}

func NewEmail(sender ses.Sender, subject string) outreach.Transport {
	if subject == "" {
		subject = defaultEmailSubject
	}
	return emailTransport{sender: sender, subject: subject}
}

func (t emailTransport) SendMessage(ctx context.Context, channel model.Channel, recipient, content string) (outreach.TransportResult, error) {
	id, err := t.sender.Send(ctx, recipient, t.subject, content)
	if err != nil {
		return outreach.TransportResult{}, err
	}
	return outreach.TransportResult{ProviderRef: id, Response: "ses message " + id}, nil
}
