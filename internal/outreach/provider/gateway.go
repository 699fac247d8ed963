package provider

import (
	"context"
	"errors"

	"ndr-srv/internal/model"
	"ndr-srv/internal/outreach"
	"ndr-srv/pkg/gateway"
)

var errRejected = errors.New("gateway rejected the message")

type gatewayTransport struct {
	client gateway.Client
}

// NewGateway sends SMS, WhatsApp and voice messages through the messaging gateway.
func NewGateway(client gateway.Client) outreach.Transport {
	return gatewayTransport{client: client}
}

func (t gatewayTransport) SendMessage(ctx context.Context, channel model.Channel, recipient, content string) (outreach.TransportResult, error) {
	resp, err := t.client.Send(ctx, gateway.Request{
		Channel:   string(channel),
		Recipient: recipient,
		Content:   content,
	})
	res := outreach.TransportResult{ProviderRef: resp.MessageID, Response: resp.Raw}
	if err != nil {
		return res, err
	}
	if !resp.Accepted {
		if resp.Error != "" {
			return res, errors.Join(errRejected, errors.New(resp.Error))
		}
		return res, errRejected
	}
	return res, nil
}
