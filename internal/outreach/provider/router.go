// Package provider adapts the messaging gateway and SES to outreach.Transport
// and renders the default outreach messages.
package provider

import (
	"context"
	"fmt"

	"ndr-srv/internal/model"
	"ndr-srv/internal/outreach"
)

type router struct {
	routes map[model.Channel]outreach.Transport
}

// NewRouter dispatches each channel to its transport. Nil transports are skipped
// and their channels answer ErrNoTransport.
func NewRouter(routes map[model.Channel]outreach.Transport) outreach.Transport {
	r := router{routes: map[model.Channel]outreach.Transport{}}
	for ch, t := range routes {
		if t != nil {
			r.routes[ch] = t
		}
	}
	return r
}

func (r router) SendMessage(ctx context.Context, channel model.Channel, recipient, content string) (outreach.TransportResult, error) {
	t, ok := r.routes[channel]
	if !ok {
		return outreach.TransportResult{}, fmt.Errorf("%w: %s", outreach.ErrNoTransport, channel)
	}
	return t.SendMessage(ctx, channel, recipient, content)
}
