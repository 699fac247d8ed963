package event

import (
	"context"
	"errors"
	"testing"

	"ndr-srv/internal/model"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	got []Event
	err error
}

func (r *recorder) Publish(ctx context.Context, ev Event) error {
	r.got = append(r.got, ev)
	return r.err
}

func TestFanout(t *testing.T) {
	a := &recorder{}
	b := &recorder{err: errors.New("redis down")}

	p := Fanout(a, nil, b)
	err := p.Publish(context.Background(), NDRTransitioned(model.NDR{ID: "n-1"}, model.Transition{To: model.NDRStatusOpen}))

	assert.ErrorContains(t, err, "redis down")
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
	assert.Equal(t, "n-1", a.got[0].Key)
	assert.Equal(t, TypeNDRTransitioned, a.got[0].Type)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop().Publish(context.Background(), Event{}))
}
