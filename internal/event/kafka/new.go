// Package kafka publishes lifecycle events to the NDR event topic.
package kafka

import (
	"context"

	"ndr-srv/internal/event"
	pkgKafka "ndr-srv/pkg/kafka"
)

type implPublisher struct {
	producer pkgKafka.Producer
}

func New(producer pkgKafka.Producer) event.Publisher {
	return &implPublisher{producer: producer}
}

func (p *implPublisher) Publish(ctx context.Context, ev event.Event) error {
	return p.producer.PublishJSON(ctx, ev.Key, ev)
}
