package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	kgo "github.com/segmentio/kafka-go"
)

const defaultPublishTimeout = 3 * time.Second

var ErrTopicRequired = errors.New("kafka topic is required")

// Producer writes JSON messages to a single topic.
type Producer interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

type implProducer struct {
	writer  *kgo.Writer
	timeout time.Duration
}

func NewProducer(brokersCSV, topic string) (Producer, error) {
	if topic == "" {
		return nil, ErrTopicRequired
	}

	w := &kgo.Writer{
		Addr:         kgo.TCP(SplitCSV(brokersCSV)...),
		Topic:        topic,
		Balancer:     &kgo.Hash{},
		RequiredAcks: kgo.RequireOne,
	}

	return &implProducer{writer: w, timeout: defaultPublishTimeout}, nil
}

func (p *implProducer) Close() error { return p.writer.Close() }

// PublishJSON marshals v and writes it keyed by key so that messages for the
// same key land on the same partition.
func (p *implProducer) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.writer.WriteMessages(cctx, kgo.Message{
		Key:   []byte(key),
		Value: b,
		Time:  time.Now(),
	})
}

func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
