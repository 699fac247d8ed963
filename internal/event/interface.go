package event

import (
	"context"
	"errors"
)

// Publisher delivers events to downstream consumers. Events for the same key keep their order.
//
//go:generate mockery --name Publisher
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type nopPublisher struct{}

// Nop discards every event.
func Nop() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(ctx context.Context, ev Event) error { return nil }

type fanout []Publisher

// Fanout publishes to every non-nil publisher and joins their errors.
func Fanout(pubs ...Publisher) Publisher {
	out := make(fanout, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (f fanout) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
