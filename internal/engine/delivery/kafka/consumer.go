package kafka

import (
	"context"
	"errors"
	"time"

	"ndr-srv/internal/engine"
	"ndr-srv/internal/metrics"
	pkgKafka "ndr-srv/pkg/kafka"
	pkgLog "ndr-srv/pkg/log"
)

const readBackoff = 500 * time.Millisecond

// DeliveryAttemptMessage is published by the shipment service after each delivery attempt.
type DeliveryAttemptMessage struct {
	DeliveryID string    `json:"delivery_id"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}

type Consumer struct {
	l       pkgLog.Logger
	reader  pkgKafka.Consumer
	uc      engine.UseCase
	metrics *metrics.Metrics
}

func New(l pkgLog.Logger, reader pkgKafka.Consumer, uc engine.UseCase, m *metrics.Metrics) *Consumer {
	return &Consumer{l: l, reader: reader, uc: uc, metrics: m}
}

// Run evaluates each delivery named on the topic until ctx is done. Offsets
// are committed only after the evaluation went through, so a failed message is redelivered.
func (c *Consumer) Run(ctx context.Context) error {
	c.l.Infof(ctx, "delivery attempt consumer started")
	for {
		var msg DeliveryAttemptMessage
		commit, err := c.reader.Read(ctx, &msg)
		if err != nil {
			if ctx.Err() != nil {
				c.l.Infof(ctx, "delivery attempt consumer stopped")
				return nil
			}
			c.l.Warnf(ctx, "internal.engine.delivery.kafka.Run.reader.Read: %v", err)
			c.metrics.CountDeliveryEvent("read_error")
			time.Sleep(readBackoff)
			continue
		}

		if err := c.handle(ctx, msg); err != nil {
			c.metrics.CountDeliveryEvent("failed")
			continue
		}

		if err := commit(ctx); err != nil {
			c.l.Errorf(ctx, "internal.engine.delivery.kafka.Run.commit: %v", err)
			continue
		}
		c.metrics.CountDeliveryEvent("processed")
	}
}

func (c *Consumer) handle(ctx context.Context, msg DeliveryAttemptMessage) error {
	if msg.DeliveryID == "" {
		c.l.Warnf(ctx, "internal.engine.delivery.kafka.handle: message without delivery_id")
		return nil
	}

	ev, err := c.uc.Evaluate(ctx, msg.DeliveryID)
	if err != nil {
		var evalErr *engine.RuleEvaluationError
		switch {
		case errors.Is(err, engine.ErrDeliveryNotFound):
			// The shipment row is not visible yet or was purged. The next scan covers it.
			c.l.Warnf(ctx, "internal.engine.delivery.kafka.handle: delivery %s not found", msg.DeliveryID)
			return nil
		case errors.As(err, &evalErr):
			c.l.Warnf(ctx, "internal.engine.delivery.kafka.handle.uc.Evaluate: %v", err)
			return nil
		}
		c.l.Errorf(ctx, "internal.engine.delivery.kafka.handle.uc.Evaluate: %v", err)
		return err
	}

	c.l.Debugf(ctx, "delivery %s evaluated outcome=%s", msg.DeliveryID, ev.Outcome)
	return nil
}
