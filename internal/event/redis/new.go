// Package redis publishes lifecycle events on a pub/sub channel for live dashboards.
package redis

import (
	"context"
	"encoding/json"

	"ndr-srv/internal/event"
	pkgRedis "ndr-srv/pkg/redis"
)

type implPublisher struct {
	client  pkgRedis.IRedis
	channel string
}

func New(client pkgRedis.IRedis, channel string) event.Publisher {
	return &implPublisher{client: client, channel: channel}
}

func (p *implPublisher) Publish(ctx context.Context, ev event.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, b)
}
