package kafka

import (
	"context"
	"encoding/json"
	"time"

	kgo "github.com/segmentio/kafka-go"
)

const commitTimeout = 3 * time.Second

// CommitFunc acknowledges a fetched message. Call it after successful processing.
type CommitFunc func(ctx context.Context) error

type Consumer interface {
	// Read blocks until a message arrives and decodes its value into out.
	// Messages that fail to decode are committed and the decode error is returned.
	Read(ctx context.Context, out any) (CommitFunc, error)
	Close() error
}

type implConsumer struct {
	reader *kgo.Reader
}

func NewConsumer(brokers []string, topic, groupID string) (Consumer, error) {
	if topic == "" {
		return nil, ErrTopicRequired
	}

	r := kgo.NewReader(kgo.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	})

	return &implConsumer{reader: r}, nil
}

func (c *implConsumer) Close() error { return c.reader.Close() }

func (c *implConsumer) Read(ctx context.Context, out any) (CommitFunc, error) {
	m, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(m.Value, out); err != nil {
		// skip poison messages
		_ = c.reader.CommitMessages(ctx, m)
		return nil, err
	}

	return func(ctx context.Context) error {
		cctx, cancel := context.WithTimeout(ctx, commitTimeout)
		defer cancel()
		return c.reader.CommitMessages(cctx, m)
	}, nil
}
