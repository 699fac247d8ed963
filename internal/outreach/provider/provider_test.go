package provider

import (
	"context"
	"errors"
	"testing"

	"ndr-srv/internal/model"
	"ndr-srv/internal/outreach"
	"ndr-srv/pkg/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Send(ctx context.Context, req gateway.Request) (gateway.Response, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(gateway.Response), args.Error(1)
}

type mockSES struct {
	mock.Mock
}

func (m *mockSES) Send(ctx context.Context, to, subject, body string) (string, error) {
	args := m.Called(ctx, to, subject, body)
	return args.String(0), args.Error(1)
}

func TestRouter(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{}
	gw.On("Send", ctx, gateway.Request{Channel: "SMS", Recipient: "+84900", Content: "hi"}).
		Return(gateway.Response{Accepted: true, MessageID: "m-1", Raw: `{"accepted":true}`}, nil)
	em := &mockSES{}
	em.On("Send", ctx, "a@b.c", defaultEmailSubject, "hi").Return("ses-1", nil)

	r := NewRouter(map[model.Channel]outreach.Transport{
		model.ChannelSMS:   NewGateway(gw),
		model.ChannelEmail: NewEmail(em, ""),
		model.ChannelVoice: nil,
	})

	res, err := r.SendMessage(ctx, model.ChannelSMS, "+84900", "hi")
	require.NoError(t, err)
	assert.Equal(t, "m-1", res.ProviderRef)

	res, err = r.SendMessage(ctx, model.ChannelEmail, "a@b.c", "hi")
	require.NoError(t, err)
	assert.Equal(t, "ses-1", res.ProviderRef)

	_, err = r.SendMessage(ctx, model.ChannelVoice, "+84900", "hi")
	assert.ErrorIs(t, err, outreach.ErrNoTransport)
}

func TestGatewayRejected(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{}
	gw.On("Send", ctx, mock.Anything).Return(gateway.Response{Accepted: false, Error: "blocked number"}, nil)

	_, err := NewGateway(gw).SendMessage(ctx, model.ChannelWhatsApp, "+84900", "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, errRejected)
	assert.Contains(t, err.Error(), "blocked number")

	gw2 := &mockGateway{}
	gw2.On("Send", ctx, mock.Anything).Return(gateway.Response{}, errors.New("timeout"))
	_, err = NewGateway(gw2).SendMessage(ctx, model.ChannelSMS, "+84900", "hi")
	assert.EqualError(t, err, "timeout")
}

func TestTemplateRenderer(t *testing.T) {
	r, err := NewTemplateRenderer(map[model.Reason]string{
		model.ReasonWrongAddress: "Address for {{.OrderCode}}?",
	})
	require.NoError(t, err)

	msg, err := r.Render(model.ReasonWrongAddress, outreach.TemplateData{OrderCode: "ORD-1"})
	require.NoError(t, err)
	assert.Equal(t, "Address for ORD-1?", msg)

	msg, err = r.Render(model.ReasonCODNotReady, outreach.TemplateData{CustomerName: "An", OrderCode: "ORD-2", CODAmount: 12.5})
	require.NoError(t, err)
	assert.Contains(t, msg, "Hi An")
	assert.Contains(t, msg, "12.50")

	msg, err = r.Render(model.Reason("UNKNOWN"), outreach.TemplateData{OrderCode: "ORD-3", TrackingNumber: "TRK"})
	require.NoError(t, err)
	assert.Contains(t, msg, "Hi there")
	assert.Contains(t, msg, "TRK")

	_, err = NewTemplateRenderer(map[model.Reason]string{model.ReasonOther: "{{.Broken"})
	assert.Error(t, err)
}
